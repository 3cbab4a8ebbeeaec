package gen

import (
	"fmt"

	"github.com/spf13/afero"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to their directories on fs,
// creating the directories if they don't exist.
func WriteFiles(fs afero.Fs, files []GeneratedFile) error {
	for _, file := range files {
		if err := fs.MkdirAll(file.Dir, dirPerm); err != nil {
			return fmt.Errorf("creating output directory %s: %w", file.Dir, err)
		}

		if err := afero.WriteFile(fs, file.Path(), file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Path(), err)
		}
	}

	return nil
}
