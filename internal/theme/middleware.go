package theme

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// bufferedWriter holds the response so the head can be rewritten before it
// reaches the client.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header { return bw.header }

func (bw *bufferedWriter) WriteHeader(status int) {
	if bw.status == 0 {
		bw.status = status
	}
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	return bw.body.Write(p)
}

// HeadInjector is the page-render hook: every text/html response produced by
// next gets the dark-theme style element inserted into its head. Other
// responses pass through untouched.
func HeadInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := &bufferedWriter{header: make(http.Header)}
		next.ServeHTTP(bw, r)

		body := bw.body.Bytes()
		contentType := bw.header.Get("Content-Type")
		if contentType == "" && len(body) > 0 {
			contentType = http.DetectContentType(body)
		}
		if strings.HasPrefix(contentType, "text/html") {
			body = InjectHead(body)
			bw.header.Set("Content-Length", strconv.Itoa(len(body)))
		}

		for k, v := range bw.header {
			w.Header()[k] = v
		}
		if bw.status == 0 {
			bw.status = http.StatusOK
		}
		w.WriteHeader(bw.status)
		if r.Method != http.MethodHead {
			_, _ = w.Write(body)
		}
	})
}
