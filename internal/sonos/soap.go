package sonos

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/huin/goupnp/soap"
)

// service identifies a UPnP service hosted by a speaker.
type service struct {
	urn     string
	control string
	event   string
}

var (
	avTransport = service{
		urn:     "urn:schemas-upnp-org:service:AVTransport:1",
		control: "/MediaRenderer/AVTransport/Control",
		event:   "/MediaRenderer/AVTransport/Event",
	}
	renderingControl = service{
		urn:     "urn:schemas-upnp-org:service:RenderingControl:1",
		control: "/MediaRenderer/RenderingControl/Control",
		event:   "/MediaRenderer/RenderingControl/Event",
	}
	contentDirectory = service{
		urn:     "urn:schemas-upnp-org:service:ContentDirectory:1",
		control: "/MediaServer/ContentDirectory/Control",
	}
	zoneGroupTopology = service{
		urn:     "urn:schemas-upnp-org:service:ZoneGroupTopology:1",
		control: "/ZoneGroupTopology/Control",
	}
)

// Action arguments. Field order is the element order on the wire, which
// matters to some firmware versions.
type (
	instanceArgs struct{ InstanceID string }
	playArgs     struct{ InstanceID, Speed string }
	volumeArgs   struct{ InstanceID, Channel string }

	setVolumeArgs struct {
		InstanceID    string
		Channel       string
		DesiredVolume string
	}
	browseArgs struct {
		ObjectID       string
		BrowseFlag     string
		Filter         string
		StartingIndex  string
		RequestedCount string
		SortCriteria   string
	}
	setURIArgs struct {
		InstanceID         string
		CurrentURI         string
		CurrentURIMetaData string
	}
	enqueueArgs struct {
		InstanceID                      string
		EnqueuedURI                     string
		EnqueuedURIMetaData             string
		DesiredFirstTrackNumberEnqueued string
		EnqueueAsNext                   string
	}
)

var (
	noArgs     = &struct{}{}
	instance0  = &instanceArgs{InstanceID: "0"}
	masterVol  = &volumeArgs{InstanceID: "0", Channel: "Master"}
	playNormal = &playArgs{InstanceID: "0", Speed: "1"}
)

// FaultError is a UPnP error returned by a device.
type FaultError struct {
	Action      string
	Code        int
	Description string
}

func (e *FaultError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: UPnP error %d (%s)", e.Action, e.Code, e.Description)
	}
	if d := faultDescriptions[e.Code]; d != "" {
		return fmt.Sprintf("%s: UPnP error %d (%s)", e.Action, e.Code, d)
	}
	return fmt.Sprintf("%s: UPnP error %d", e.Action, e.Code)
}

var faultDescriptions = map[int]string{
	401: "invalid action",
	402: "invalid arguments",
	501: "action failed",
	701: "transition not available",
	711: "illegal seek target",
	712: "play mode not supported",
	714: "illegal MIME type",
	800: "command not supported by group member",
}

// call invokes a SOAP action and returns the response arguments by name.
// in is a pointer to a struct of string fields, one per argument.
func (c *Client) call(ctx context.Context, addr string, svc service, action string, in any) (map[string]string, error) {
	ex := &exchange{base: c.httpClient.Transport}
	if ex.base == nil {
		ex.base = http.DefaultTransport
	}
	client := &soap.SOAPClient{
		EndpointURL: url.URL{Scheme: "http", Host: addr, Path: svc.control},
		HTTPClient:  http.Client{Transport: ex, Timeout: c.httpClient.Timeout},
	}

	var out response
	err := client.PerformActionCtx(ctx, svc.urn, action, in, &out)
	if err == nil {
		return out, nil
	}

	var sf *soap.SOAPFaultError
	switch {
	case ex.err != nil:
		return nil, c.transportErr(ctx, action, ex.err)
	case ctx.Err() != nil:
		return nil, c.transportErr(ctx, action, err)
	case errors.As(err, &sf):
		return nil, newFault(action, sf)
	case ex.status != http.StatusOK:
		return nil, fmt.Errorf("%s: device returned status %d", action, ex.status)
	default:
		return nil, fmt.Errorf("%s: decode response: %w", action, err)
	}
}

// exchange records what happened on the wire during one action, which the
// SOAP client only reports as text.
type exchange struct {
	base   http.RoundTripper
	err    error
	status int
}

func (e *exchange) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := e.base.RoundTrip(req)
	if err != nil {
		e.err = err
		return nil, err
	}
	e.status = resp.StatusCode
	return resp, nil
}

// response collects the text of every child of an action response element.
type response map[string]string

func (r *response) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	*r = make(response)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var text string
			if err := d.DecodeElement(&text, &t); err != nil {
				return err
			}
			(*r)[t.Name.Local] = text
		case xml.EndElement:
			return nil
		}
	}
}

type upnpError struct {
	Code        int    `xml:"errorCode"`
	Description string `xml:"errorDescription"`
}

func newFault(action string, sf *soap.SOAPFaultError) *FaultError {
	var e upnpError
	if err := xml.Unmarshal(sf.Detail.Raw, &e); err != nil || e.Code == 0 {
		return &FaultError{Action: action, Description: sf.FaultString}
	}
	return &FaultError{Action: action, Code: e.Code, Description: e.Description}
}
