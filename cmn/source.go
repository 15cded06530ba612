package cmn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var YamlSuffixes = []string{".yml", ".yaml"}

/*
	ParserIterateOverSource calls cb for every file under sourcePath
	whose name ends with one of suffixes. A file given directly is always read.
	Directory entries are visited in lexical order.
*/
func ParserIterateOverSource(
	sourcePath string,
	suffixes []string,
	cb func(path string, fc []byte) error,
) error {
	fi, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return readSource(sourcePath, cb)
	}
	return filepath.WalkDir(sourcePath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasSuffix(d.Name(), suffixes) {
			return nil
		}
		return readSource(p, cb)
	})
}

func hasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func readSource(p string, cb func(string, []byte) error) error {
	fc, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	if len(fc) == 0 {
		return fmt.Errorf("%s - empty file content", p)
	}
	return cb(p, fc)
}
