//go:build sonic

package benchsdk

import (
	"github.com/bytedance/sonic"
)

var jsonMarshal = sonic.Marshal
var jsonUnmarshal = sonic.Unmarshal
