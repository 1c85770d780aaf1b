package bundle

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// pack compresses all the files of the source directory into the dest zip file.
func pack(source, dest string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	writer := zip.NewWriter(f)
	defer func() { err = errors.Join(err, writer.Close()) }()

	return filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Method = zip.Deflate
		if header.Name, err = filepath.Rel(source, path); err != nil {
			return err
		}
		header.Name = filepath.ToSlash(header.Name)

		w, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		return errors.Join(err, src.Close())
	})
}
