// Command layoutdebug runs the Debug Inspection Protocol server (spec
// §6.5) over a websocket, fronting one in-process Pipeline. It exists as
// the fixture external tooling connects to, grounded on the teacher's
// base/websocket/example/server.
package main

import (
	"encoding/json"
	"flag"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/cogentlayout/corelayout/internal/config"
	"github.com/cogentlayout/corelayout/internal/debugproto"
	"github.com/cogentlayout/corelayout/internal/textbridge"
	"github.com/cogentlayout/corelayout/internal/xlog"
	"github.com/cogentlayout/corelayout/pkg/corelayout"
)

func main() {
	addr := flag.String("addr", ":8090", "debug protocol listen address")
	flag.Parse()

	cfg := config.Default()
	engine := textbridge.NewGoTextEngine(nil, 16)
	pipeline := corelayout.New(engine, nil, cfg)
	handler := debugproto.NewHandler(pipeline)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	http.HandleFunc("/debug", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			xlog.L().Errorw("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd debugproto.Command
			if err := json.Unmarshal(msg, &cmd); err != nil {
				continue
			}
			resp := handler.Handle(cmd)
			out, err := json.Marshal(resp)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	})

	xlog.L().Infow("layoutdebug listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		xlog.L().Fatalw("server exited", "err", err)
	}
}
