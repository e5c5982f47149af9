package health

import "net/http"

// Liveness reports whether the process itself is alive, independent of
// any dependency (cache backend, Kafka, worker pool). It never fails
// once the process can serve HTTP at all.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}
}
