package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"cardapio-virtual/internal/domain"
)

var ErrInvalidFilename = fmt.Errorf("%w: invalid image filename", domain.ErrInvalidItem)

// ImageStore keeps menu item images in one directory and maps them to the
// public URL prefix they are served under.
type ImageStore struct {
	Dir       string
	URLPrefix string
}

func NewImageStore(dir, urlPrefix string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &ImageStore{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// FileName is the stored name of an image: the item id prefixed onto the
// uploaded file's base name.
func FileName(itemID int, original string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(original), `\`, "/"))
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", ErrInvalidFilename
	}
	return strconv.Itoa(itemID) + "_" + base, nil
}

// Save writes content as the image of itemID and returns its public URL and
// the number of bytes written. The file appears under its final name only
// once fully written.
func (s *ImageStore) Save(itemID int, original string, content io.Reader) (string, int64, error) {
	filename, err := FileName(itemID, original)
	if err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create image file: %w", err)
	}
	written, err := io.Copy(tmp, content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write image file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, filename)); err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("store image file: %w", err)
	}
	return s.URLPrefix + "/" + filename, written, nil
}

// FilePath maps a public image URL back to its location on disk. URLs that
// do not belong to the store map to "".
func (s *ImageStore) FilePath(url string) string {
	name := strings.TrimPrefix(url, s.URLPrefix+"/")
	if name == url || name == "" || strings.ContainsAny(name, `/\`) {
		return ""
	}
	return filepath.Join(s.Dir, name)
}

// Remove deletes the image behind url. A missing file is not an error.
func (s *ImageStore) Remove(url string) error {
	file := s.FilePath(url)
	if file == "" {
		return nil
	}
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
