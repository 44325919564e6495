package common

import (
	"fmt"
	"os"
)

// WriteFileAtomic writes newBytes to filePath. Guaranteed not to lose *both*
// the previous content and newBytes: the old file is kept as filePath+".bak"
// and the new content lands via rename.
func WriteFileAtomic(filePath string, newBytes []byte, mode os.FileMode) error {
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		fileBytes, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filePath, err)
		}
		if err := os.WriteFile(filePath+".bak", fileBytes, mode); err != nil {
			return fmt.Errorf("could not write file %v: %v", filePath+".bak", err)
		}
	}
	if err := os.WriteFile(filePath+".new", newBytes, mode); err != nil {
		return fmt.Errorf("could not write file %v: %v", filePath+".new", err)
	}
	return os.Rename(filePath+".new", filePath)
}
