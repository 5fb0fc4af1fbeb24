package output

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/yndnr/minikv-go/pkg/resp"
)

// EncodingBase64 marks a Reply value that is not valid UTF-8.
const EncodingBase64 = "base64"

// Reply is a server reply in a form every formatter can render.
type Reply struct {
	Type     string  `json:"type" yaml:"type"`
	Value    *string `json:"value,omitempty" yaml:"value,omitempty"`
	Encoding string  `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Integer  *int64  `json:"integer,omitempty" yaml:"integer,omitempty"`
	Error    string  `json:"error,omitempty" yaml:"error,omitempty"`
	Items    []Reply `json:"items,omitempty" yaml:"items,omitempty"`

	raw []byte
}

// FromFrame converts a decoded reply frame.
func FromFrame(f resp.Frame) Reply {
	r := Reply{Type: f.Kind.String()}
	switch f.Kind {
	case resp.KindSimple:
		r.setValue([]byte(f.Str))
	case resp.KindBulk:
		r.setValue(f.Bulk)
	case resp.KindError:
		r.Error = f.Str
	case resp.KindInteger:
		n := f.Int
		r.Integer = &n
	case resp.KindArray:
		r.Items = make([]Reply, len(f.Array))
		for i, e := range f.Array {
			r.Items[i] = FromFrame(e)
		}
	}
	return r
}

// IsError reports whether the reply is an error reply.
func (r Reply) IsError() bool {
	return r.Type == resp.KindError.String()
}

func (r *Reply) setValue(b []byte) {
	r.raw = b
	var s string
	if utf8.Valid(b) {
		s = string(b)
	} else {
		s = base64.StdEncoding.EncodeToString(b)
		r.Encoding = EncodingBase64
	}
	r.Value = &s
}
