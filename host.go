package cookiebridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
)

// Host bridges the extension popup to a cookie Store. It reads framed
// requests from stdin, dispatches them, and writes framed responses to
// stdout. All logging goes to stderr; stdout carries only the protocol.
type Host struct {
	co  *Coordinator
	in  io.Reader
	out io.Writer
	log *log.Logger
}

// NewHost creates a Host over os.Stdin/os.Stdout backed by store.
func NewHost(store Store, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(os.Stderr, "cookiebridge: ", log.LstdFlags)
	}
	return &Host{
		co:  NewCoordinator(store),
		in:  os.Stdin,
		out: os.Stdout,
		log: logger,
	}
}

// Run serves requests until the browser closes stdin or an unrecoverable
// protocol error occurs.
func (h *Host) Run(ctx context.Context) error {
	for {
		if err := h.serveOne(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *Host) serveOne(ctx context.Context) error {
	data, err := ReadFrame(h.in)
	if err != nil {
		return err
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		// ID 0: the request was not parseable, so there is nothing to correlate.
		return h.write(errorResponse(0, fmt.Errorf("invalid request: %w", err)))
	}

	resp := h.Dispatch(ctx, req)
	return h.write(resp)
}

func (h *Host) write(resp Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return WriteFrame(h.out, b)
}

type listParams struct {
	URL string `json:"url"`
}

type saveParams struct {
	Cookie *wireCookie `json:"cookie"`
	URL    string      `json:"url,omitempty"`
}

type deleteParams struct {
	Cookie *struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"cookie"`
}

type importParams struct {
	Cookies json.RawMessage `json:"cookies"`
	URL     string          `json:"url,omitempty"`
}

// Dispatch routes a single request to the coordinator and shapes the
// response. The active tab's URL always travels inside the payload; the host
// never reads ambient browser state.
func (h *Host) Dispatch(ctx context.Context, req Request) Response {
	switch req.Action {
	case "getCookies":
		return h.getCookies(ctx, req)
	case "saveCookie":
		return h.saveCookie(ctx, req)
	case "deleteCookie":
		return h.deleteCookie(ctx, req)
	case "deleteAllCookies":
		return h.deleteAllCookies(ctx, req)
	case "importCookies":
		return h.importCookies(ctx, req)
	default:
		return errorResponse(req.ID, errors.New("Unknown action"))
	}
}

func (h *Host) getCookies(ctx context.Context, req Request) Response {
	var params listParams
	if err := unmarshalParams(req.Payload, &params); err != nil {
		return errorResponse(req.ID, err)
	}
	origin, err := parseOrigin(params.URL)
	if err != nil {
		return errorResponse(req.ID, err)
	}

	cookies, err := h.co.List(ctx, originString(origin))
	if err != nil {
		return errorResponse(req.ID, err)
	}
	h.log.Printf("listed %d cookies for %s", len(cookies), origin.host)
	return Response{ID: req.ID, Ok: true, Cookies: toWireCookies(cookies)}
}

func (h *Host) saveCookie(ctx context.Context, req Request) Response {
	var params saveParams
	if err := unmarshalParams(req.Payload, &params); err != nil {
		return errorResponse(req.ID, err)
	}
	if params.Cookie == nil {
		return errorResponse(req.ID, errors.New("cookiebridge: cookie is required"))
	}

	c := fromWire(*params.Cookie)
	if c.Name == "" {
		return errorResponse(req.ID, errors.New("cookiebridge: cookie name required"))
	}
	if c.Domain == "" {
		c.Domain = hostOf(params.URL)
	}
	if c.Path == "" {
		c.Path = "/"
	}

	saved, err := h.co.Save(ctx, c)
	if err != nil {
		return errorResponse(req.ID, err)
	}
	w := toWire(*saved)
	return Response{ID: req.ID, Ok: true, Cookie: &w}
}

func (h *Host) deleteCookie(ctx context.Context, req Request) Response {
	var params deleteParams
	if err := unmarshalParams(req.Payload, &params); err != nil {
		return errorResponse(req.ID, err)
	}
	if params.Cookie == nil || params.Cookie.Name == "" || params.Cookie.URL == "" {
		return errorResponse(req.ID, errors.New("cookiebridge: cookie name and url are required"))
	}

	details, err := h.co.Delete(ctx, params.Cookie.URL, params.Cookie.Name)
	if err != nil {
		return errorResponse(req.ID, err)
	}
	return Response{ID: req.ID, Ok: true, Details: details}
}

func (h *Host) deleteAllCookies(ctx context.Context, req Request) Response {
	var params listParams
	if err := unmarshalParams(req.Payload, &params); err != nil {
		return errorResponse(req.ID, err)
	}
	origin, err := parseOrigin(params.URL)
	if err != nil {
		return errorResponse(req.ID, err)
	}

	cookies, err := h.co.List(ctx, originString(origin))
	if err != nil {
		return errorResponse(req.ID, err)
	}

	result := h.co.DeleteAll(ctx, cookies)
	h.log.Printf("deleted %d of %d cookies for %s", result.Succeeded, result.Total, origin.host)
	return Response{
		ID:      req.ID,
		Ok:      true,
		Message: fmt.Sprintf("Deleted %d of %d cookies", result.Succeeded, result.Total),
		Results: &result,
	}
}

func (h *Host) importCookies(ctx context.Context, req Request) Response {
	var params importParams
	if err := unmarshalParams(req.Payload, &params); err != nil {
		return errorResponse(req.ID, err)
	}
	if len(params.Cookies) == 0 {
		return errorResponse(req.ID, errors.New("cookiebridge: cookies payload is required"))
	}

	// Malformed payloads abort here, before any store call.
	cookies, err := ParseCookiesJSON(params.Cookies)
	if err != nil {
		return errorResponse(req.ID, err)
	}

	result := h.co.Import(ctx, cookies, hostOf(params.URL))
	h.log.Printf("imported %d of %d cookies", result.Succeeded, result.Total)
	return Response{
		ID:      req.ID,
		Ok:      true,
		Message: fmt.Sprintf("Imported %d of %d cookies", result.Succeeded, result.Total),
		Results: &result,
	}
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func originString(o requestOrigin) string {
	return o.scheme + "://" + o.host + o.path
}

// hostOf extracts the hostname of rawURL, used as the fallback domain for
// records that carry none. Empty when rawURL is unusable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}
