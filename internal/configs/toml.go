package configs

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveTOML encodes data into filePath, replacing any existing file. The file
// is readable by the owner only since it names key files.
func SaveTOML(filePath string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// LoadTOML decodes filePath into data. Keys not present in the file leave the
// corresponding fields of data untouched.
func LoadTOML(filePath string, data any) error {
	_, err := toml.DecodeFile(filePath, data)
	return err
}
