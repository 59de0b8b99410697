package param

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"comptroller/pkg/number"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(number.Amount{}, func(s string) reflect.Value {
		v, err := number.ParseAmount(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(v)
	})
	d.RegisterConverter(number.Exp{}, func(s string) reflect.Value {
		v, err := number.ParseExp(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(v)
	})
	return d
}

// Binding binds the url query, then the json body of non GET requests, into v
func Binding(r *http.Request, v interface{}) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return err
	}

	if r.Method == http.MethodGet || r.Body == nil {
		return nil
	}

	if typ := r.Header.Get("Content-Type"); typ != "" && !strings.HasPrefix(typ, "application/json") {
		return errors.New("content type must be application/json")
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return err
	}

	return nil
}

// URL returns the chi url param key, unescaped by the router
func URL(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
