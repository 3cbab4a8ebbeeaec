package gen

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. A nil fs disables it.
func writeDebugUnformatted(fs afero.Fs, outDir, filename string, content []byte) error {
	if fs == nil || outDir == "" || filename == "" {
		return nil
	}

	if err := fs.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return afero.WriteFile(fs, filepath.Join(outDir, debugName), content, filePerm)
}
