package cdg

import (
	"archive/zip"
	"io"
	"os"
)

type zipEntry struct {
	name string
	file string
}

func addToZip(w *zip.Writer, e zipEntry) error {
	f, err := os.Open(e.file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	h, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	h.Name = e.name
	h.Method = zip.Deflate

	dst, err := w.CreateHeader(h)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, f)

	return err
}

// writeZip creates file holding each entry under its given name.
func writeZip(file string, entries ...zipEntry) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		if err := addToZip(w, e); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	return f.Close()
}
