package starapi

import (
	"encoding/json"
	"net/http"

	"github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/chttp"
)

// PingResponse is a JSON response body representing the result of Ping
type PingResponse struct {
	Pong bool `json:"pong"`
}

// HandlePing returns a `PingResponse`
func (sa *StarAPI) HandlePing(r *http.Request) chttp.Response {
	responseBytes, _ := json.Marshal(PingResponse{
		Pong: true,
	})

	return chttp.SimpleResponse(200, responseBytes)
}
