package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// GzipMiddleware decompresses gzip request bodies and compresses the
// response when the client accepts it. CSV exports shrink well.
func GzipMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// request body
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer zr.Close()
			r.Body = zr
		}

		// response body
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h(w, r)
			return
		}

		zw := gzip.NewWriter(w)
		defer zw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		h(gzipWriter{ResponseWriter: w, writer: zw}, r)
	})
}

type gzipWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (gw gzipWriter) Write(b []byte) (int, error) {
	return gw.writer.Write(b)
}
