// Package remoteagent implements the JSON-lines protocol spoken
// between the editor and a remote-editing agent (spec §6): one
// message per line over a byte stream, request/response correlation
// by numeric id, streamed data frames, and a single terminal success
// or error frame per request.
//
// Framing and request/response correlation follow
// internal/lsp/transport.go's pending-channel-per-id pattern and
// internal/lsp/supervisor.go's exponential-backoff reconnect, adapted
// from LSP's JSON-RPC envelope to the protocol's flatter {id,m,p} /
// {id,d} / {id,r|e} shapes.
package remoteagent

import "encoding/json"

// Method is one of the fixed remote-agent operations spec §6 names.
type Method string

const (
	MethodRead     Method = "read"
	MethodWrite    Method = "write"
	MethodStat     Method = "stat"
	MethodList     Method = "ls"
	MethodRemove   Method = "rm"
	MethodRmdir    Method = "rmdir"
	MethodMkdir    Method = "mkdir"
	MethodMove     Method = "mv"
	MethodCopy     Method = "cp"
	MethodRealpath Method = "realpath"
	MethodChmod    Method = "chmod"
	MethodExec     Method = "exec"
	MethodKill     Method = "kill"
	MethodCancel   Method = "cancel"
)

// Request is the {id, m, p} request frame. P carries method-specific
// parameters as a raw JSON value so Encode/Decode don't need a
// per-method struct.
type Request struct {
	ID     int64           `json:"id"`
	Method Method          `json:"m"`
	Params json.RawMessage `json:"p,omitempty"`
}

// DataFrame is a {id, d} streamed-output frame. A request may produce
// zero or more of these before its terminal frame — exec streams
// stdout/stderr chunks this way, read streams base64 file content this
// way for large files.
type DataFrame struct {
	ID   int64           `json:"id"`
	Data json.RawMessage `json:"d"`
}

// ResultFrame is the {id, r} terminal success frame.
type ResultFrame struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"r"`
}

// ErrorFrame is the {id, e} terminal failure frame.
type ErrorFrame struct {
	ID      int64  `json:"id"`
	Message string `json:"e"`
}

// ReadyFrame is the single bootstrap message the agent emits at
// startup, before any request is sent.
type ReadyFrame struct {
	OK      bool `json:"ok"`
	Version int  `json:"v"`
}

// ExecExit is the payload of exec's final data frame, carrying the
// spawned process's exit code.
type ExecExit struct {
	Code int `json:"code"`
}

// ProtocolVersion is the v field every ReadyFrame must carry for this
// package's Client to accept the connection.
const ProtocolVersion = 1

// ReadParams is read's request payload.
type ReadParams struct {
	Path string `json:"path"`
}

// ReadResult is read's terminal result payload: the whole file,
// base64-encoded per spec §6's "binary payloads are base64-encoded"
// rule. A very large file may instead arrive as DataFrame chunks with
// an empty ContentBase64 in the terminal ResultFrame; this package
// leaves that split to the caller since it only matters past a size
// threshold no fixed struct should hardcode.
type ReadResult struct {
	ContentBase64 string `json:"content_b64"`
}

// WriteParams is write's request payload.
type WriteParams struct {
	Path          string `json:"path"`
	ContentBase64 string `json:"content_b64"`
}
