package api

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/box"
)

// Compression gzips responses when the client accepts it. Paths starting with
// any of skip are left alone (promhttp compresses by itself).
func Compression(skip ...string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			w := box.GetResponse(ctx)

			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next(ctx)
				return
			}
			for _, prefix := range skip {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next(ctx)
					return
				}
			}

			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")
			gz := gzip.NewWriter(w)
			defer gz.Close()
			gzw := gzipResponseWriter{Writer: gz, ResponseWriter: w}
			box.GetBoxContext(ctx).Response = gzw
			next(ctx)
		}
	}
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}
