package remoteagent

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// frameKind classifies one decoded line by which terminal/streaming
// field it carries, without a full json.Unmarshal into every candidate
// struct — gjson field extraction matches how a resource-constrained
// remote bootstrap would parse frames cheaply.
type frameKind int

const (
	frameUnknown frameKind = iota
	frameData
	frameResult
	frameError
	frameReady
)

func classify(line []byte) frameKind {
	res := gjson.ParseBytes(line)
	switch {
	case res.Get("ok").Exists() && res.Get("v").Exists():
		return frameReady
	case res.Get("e").Exists():
		return frameError
	case res.Get("r").Exists():
		return frameResult
	case res.Get("d").Exists():
		return frameData
	default:
		return frameUnknown
	}
}

func frameID(line []byte) int64 {
	return gjson.GetBytes(line, "id").Int()
}

func frameMethod(line []byte) Method {
	return Method(gjson.GetBytes(line, "m").String())
}

// setRaw and setString are thin sjson wrappers the test fakes use to
// assemble frames field by field, matching how a real agent would
// build its response line incrementally.
func setRaw(line []byte, path, rawValue string) ([]byte, error) {
	return sjson.SetRawBytes(line, path, []byte(rawValue))
}

func setString(line []byte, path, value string) ([]byte, error) {
	return sjson.SetBytes(line, path, value)
}

// encodeRequest builds a {id,m,p} line. params is pre-marshaled JSON
// (or nil, for methods with no parameters).
func encodeRequest(id int64, method Method, params []byte) ([]byte, error) {
	line, err := sjson.SetBytes([]byte(`{}`), "id", id)
	if err != nil {
		return nil, fmt.Errorf("remoteagent: encode request id: %w", err)
	}
	line, err = sjson.SetBytes(line, "m", string(method))
	if err != nil {
		return nil, fmt.Errorf("remoteagent: encode request method: %w", err)
	}
	if len(params) > 0 {
		line, err = sjson.SetRawBytes(line, "p", params)
		if err != nil {
			return nil, fmt.Errorf("remoteagent: encode request params: %w", err)
		}
	}
	return line, nil
}

func decodeError(line []byte) (id int64, message string) {
	res := gjson.ParseBytes(line)
	return res.Get("id").Int(), res.Get("e").String()
}

func decodeResult(line []byte) (id int64, result []byte) {
	res := gjson.ParseBytes(line)
	return res.Get("id").Int(), []byte(res.Get("r").Raw)
}

func decodeData(line []byte) (id int64, data []byte) {
	res := gjson.ParseBytes(line)
	return res.Get("id").Int(), []byte(res.Get("d").Raw)
}

func decodeReady(line []byte) (ok bool, version int) {
	res := gjson.ParseBytes(line)
	return res.Get("ok").Bool(), int(res.Get("v").Int())
}

// cancelParams builds the {"id": target} params payload for a
// cancel request naming the in-flight call it should terminate.
func cancelParams(target int64) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "id", target)
}
