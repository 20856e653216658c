package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway in front terminates auth, the stub itself is open
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Socket is the default passthrough route: it echoes every message back
// to the connection it came from
func Socket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("Failed to upgrade websocket connection", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if err := conn.WriteMessage(mt, []byte("default route received: "+string(msg))); err != nil {
			return
		}
	}
}
