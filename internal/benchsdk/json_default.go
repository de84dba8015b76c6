//go:build !sonic

package benchsdk

import (
	"github.com/goccy/go-json"
)

var jsonMarshal = json.Marshal
var jsonUnmarshal = json.Unmarshal
