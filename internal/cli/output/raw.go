package output

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yndnr/minikv-go/pkg/resp"
)

// RawFormatter writes replies the way redis-cli does on a pipe: bulk and
// simple strings verbatim, (nil), (integer) n, (error) text. Structs are
// written as aligned "field value" lines.
type RawFormatter struct{}

// Format writes data as plain text.
func (f *RawFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case Reply:
		return writeReply(w, v, "")
	case *Reply:
		return writeReply(w, *v, "")
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		return writeFields(w, data)
	}
}

func writeReply(w io.Writer, r Reply, indent string) error {
	var err error
	switch r.Type {
	case resp.KindNull.String():
		_, err = fmt.Fprintln(w, "(nil)")
	case resp.KindError.String():
		_, err = fmt.Fprintf(w, "(error) %s\n", r.Error)
	case resp.KindInteger.String():
		_, err = fmt.Fprintf(w, "(integer) %d\n", *r.Integer)
	case resp.KindArray.String():
		if len(r.Items) == 0 {
			_, err = fmt.Fprintln(w, "(empty array)")
			return err
		}
		for i, item := range r.Items {
			if i > 0 {
				if _, err = io.WriteString(w, indent); err != nil {
					return err
				}
			}
			prefix := strconv.Itoa(i+1) + ") "
			if _, err = io.WriteString(w, prefix); err != nil {
				return err
			}
			if err = writeReply(w, item, indent+strings.Repeat(" ", len(prefix))); err != nil {
				return err
			}
		}
	default:
		if _, err = w.Write(r.raw); err == nil {
			_, err = io.WriteString(w, "\n")
		}
	}
	return err
}

// writeFields renders exported struct fields, named by their json tag.
func writeFields(w io.Writer, data any) error {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		_, err := fmt.Fprintln(w, v.Interface())
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		name := field.Name
		if tag != "" {
			name = tag
		}
		fmt.Fprintf(tw, "%s:\t%v\n", name, v.Field(i).Interface())
	}
	return tw.Flush()
}
