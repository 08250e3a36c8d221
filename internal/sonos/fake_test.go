package sonos

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeSpeaker is an httptest server answering SOAP actions with canned
// argument maps.
type fakeSpeaker struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	replies  map[string]func(body string) (int, string)
	calls    []string
	bodies   map[string][]string
	genaReqs []*http.Request
}

func newFakeSpeaker(t *testing.T) *fakeSpeaker {
	t.Helper()
	f := &fakeSpeaker{
		t:       t,
		replies: make(map[string]func(string) (int, string)),
		bodies:  make(map[string][]string),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSpeaker) addr() string {
	return strings.TrimPrefix(f.srv.URL, "http://")
}

// reply registers the response arguments of an action.
func (f *fakeSpeaker) reply(action string, args map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[action] = func(string) (int, string) {
		return http.StatusOK, envelope(action, args)
	}
}

// replyFunc registers a dynamic response.
func (f *fakeSpeaker) replyFunc(action string, fn func(body string) (int, string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[action] = fn
}

func (f *fakeSpeaker) fault(action string, code int) {
	f.replyFunc(action, func(string) (int, string) {
		return http.StatusInternalServerError, fmt.Sprintf(`<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><s:Fault>
<faultcode>s:Client</faultcode><faultstring>UPnPError</faultstring>
<detail><UPnPError xmlns="urn:schemas-upnp-org:control-1-0"><errorCode>%d</errorCode></UPnPError></detail>
</s:Fault></s:Body></s:Envelope>`, code)
	})
}

func (f *fakeSpeaker) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSpeaker) lastBody(action string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bodies[action]
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

func (f *fakeSpeaker) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	if r.Method == "SUBSCRIBE" || r.Method == "UNSUBSCRIBE" {
		f.mu.Lock()
		f.genaReqs = append(f.genaReqs, r.Clone(r.Context()))
		fn := f.replies[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if fn == nil {
			w.Header().Set("SID", "uuid:sub-"+strings.ReplaceAll(r.URL.Path, "/", "-"))
			w.Header().Set("TIMEOUT", "Second-300")
			w.WriteHeader(http.StatusOK)
			return
		}
		code, _ := fn(string(body))
		w.WriteHeader(code)
		return
	}

	soapAction := strings.Trim(r.Header.Get("SOAPACTION"), `"`)
	_, action, _ := strings.Cut(soapAction, "#")

	f.mu.Lock()
	f.calls = append(f.calls, action)
	f.bodies[action] = append(f.bodies[action], string(body))
	fn := f.replies[action]
	f.mu.Unlock()

	if fn == nil {
		fn = func(string) (int, string) { return http.StatusOK, envelope(action, nil) }
	}
	code, resp := fn(string(body))
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, resp)
}

func envelope(action string, args map[string]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>`)
	fmt.Fprintf(&b, `<u:%sResponse xmlns:u="urn:schemas-upnp-org:service:Any:1">`, action)
	for k, v := range args {
		fmt.Fprintf(&b, "<%s>", k)
		_ = xml.EscapeText(&b, []byte(v))
		fmt.Fprintf(&b, "</%s>", k)
	}
	fmt.Fprintf(&b, `</u:%sResponse></s:Body></s:Envelope>`, action)
	return b.String()
}
