package main

import (
	"strconv"
	"strings"
)

const (
	readBufferSize = 4096
	statusLine     = "HTTP/1.1 200 OK"
)

// parseRequest never fails: missing tokens are left empty and header parsing
// stops at the first blank line or the end of raw.
func parseRequest(raw []byte) request {
	lines := strings.Split(string(raw), "\n")

	var req request
	fields := strings.Fields(lines[0])
	if len(fields) > 0 {
		req.Method = fields[0]
	}
	if len(fields) > 1 {
		req.Path = fields[1]
	}
	if len(fields) > 2 {
		req.Version = fields[2]
	}

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		req.Headers = append(req.Headers, line)
	}
	return req
}

// renderBody embeds method and path verbatim, without escaping.
func renderBody(req request) string {
	return "<!DOCTYPE html>\n" +
		"<html>\n" +
		"<head>\n" +
		"    <title>Hello World</title>\n" +
		"</head>\n" +
		"<body>\n" +
		"    <h1>Hello World!</h1>\n" +
		"    <p>Method: " + req.Method + "</p>\n" +
		"    <p>Path: " + req.Path + "</p>\n" +
		"</body>\n" +
		"</html>"
}

func buildResponse(req request) []byte {
	body := renderBody(req)

	var b strings.Builder
	b.WriteString(statusLine + "\r\n")
	b.WriteString("Content-Type: text/html\r\n")
	b.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
