package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/freshkit/fresh/internal/remoteagent"
)

// remoteAgentCommand is the binary name the local editor expects to
// find on PATH on the far end of an ssh connection — a separate
// companion binary, not this one, implementing remoteagent's agent
// side of the protocol. Dialing it is out of this module's scope
// (spec's remoteagent package is the client half only); this constant
// documents the convention openRemoteTarget assumes.
const remoteAgentCommand = "fresh-agent"

// sshPipe wraps an ssh subprocess's stdin/stdout as the io.Reader/
// io.Writer/io.Closer remoteagent.NewClient needs, and its Wait as
// Close so the process is reaped once the connection is torn down.
type sshPipe struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

func (p *sshPipe) Read(b []byte) (int, error)  { return p.stdout.Read(b) }
func (p *sshPipe) Write(b []byte) (int, error) { return p.stdin.Write(b) }
func (p *sshPipe) Close() error {
	_ = p.stdin.Close()
	_ = p.stdout.Close()
	return p.cmd.Process.Kill()
}

// dialRemoteAgent spawns `ssh [-p port] user@host fresh-agent` and
// returns a remoteagent.Client speaking the protocol over its pipes,
// blocking until the agent's ready frame arrives or ctx expires.
func dialRemoteAgent(ctx context.Context, user, host, port string) (*remoteagent.Client, error) {
	args := []string{}
	if port != "" {
		args = append(args, "-p", port)
	}
	dest := host
	if user != "" {
		dest = user + "@" + host
	}
	args = append(args, dest, remoteAgentCommand)

	cmd := exec.CommandContext(ctx, "ssh", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	client := remoteagent.NewClient(stdout, stdin, &sshPipe{cmd: cmd, stdin: stdin, stdout: stdout})
	ready := make(chan *remoteagent.ReadyFrame, 1)
	client.Start(ctx, ready)

	select {
	case frame := <-ready:
		if frame == nil || frame.Version != remoteagent.ProtocolVersion {
			return nil, fmt.Errorf("remote agent at %s: %w", dest, remoteagent.ErrProtocolVersion)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return client, nil
}

// readRemoteFile fetches path's content from an already-dialed agent.
func readRemoteFile(ctx context.Context, client *remoteagent.Client, path string) (string, error) {
	params, err := json.Marshal(remoteagent.ReadParams{Path: path})
	if err != nil {
		return "", err
	}
	result, data, err := client.Call(ctx, remoteagent.MethodRead, params)
	if err != nil {
		return "", err
	}

	var res remoteagent.ReadResult
	if len(result) > 0 {
		if err := json.Unmarshal(result, &res); err != nil {
			return "", err
		}
	}
	if res.ContentBase64 == "" && len(data) > 0 {
		var buf []byte
		for _, chunk := range data {
			decoded, err := base64.StdEncoding.DecodeString(string(chunk))
			if err != nil {
				return "", err
			}
			buf = append(buf, decoded...)
		}
		return string(buf), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(res.ContentBase64)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

const remoteDialTimeout = 10 * time.Second
