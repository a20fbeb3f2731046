package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vkarpov/yatube/utils"
)

type cachingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CachePage caches whole successful responses for the given duration, keyed
// by request path and query. Entries expire purely by time; mutations do not
// invalidate them.
func CachePage(store utils.Store, ttl time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := "cache:page:" + ctx.Request.URL.Path + "?" + ctx.Request.URL.RawQuery

		if b, ok := store.GetBytes(key); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			ctx.Abort()
			return
		}

		writer := &cachingWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = writer
		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			store.SetBytes(key, writer.body.Bytes(), ttl)
		}
	}
}
