package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/heronet/internal/domain"
	"github.com/vanshika/heronet/internal/edgelist"
)

// WriteDataset writes edges as a CSV edge list to path, creating parent
// directories as needed.
func WriteDataset(edges []domain.Edge, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := edgelist.Write(file, edges); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Sync()
}
