package artifact

import (
	"path/filepath"
	"strings"
)

// Store persists opaque artifact bytes. Implementations copy data on Save
// and Get.
type Store interface {
	Save(sessionID, name string, data []byte) error
	Get(sessionID, name string) ([]byte, error)
	// List returns the names stored for a session in lexical order.
	List(sessionID string) ([]string, error)
	Delete(sessionID, name string) error
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
