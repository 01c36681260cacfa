package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/fulldump/apitest"
)

const exampleHost = "calorietracker.example.com"

// Save writes a markdown example of response into API_EXAMPLES_PATH. Nothing
// is written when the variable is empty.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}
	requestBody := formatJSON(response.BodyRequestString())

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n", title)
	fmt.Fprintf(s, "%s\n", cropTabs(description))

	// Curl
	s.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		s.WriteString("-X " + request.Method + " ")
	}
	fmt.Fprintf(s, "\"https://%s%s%s\"", exampleHost, request.URL.Path, query)
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if requestBody != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", requestBody)
	}
	s.WriteString("\n```\n\n\n")

	// Request
	s.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(s, "%s %s%s %s\n", request.Method, request.URL.Path, query, request.Proto)
	fmt.Fprintf(s, "Host: %s\n", exampleHost)
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n\n", requestBody)

	// Response
	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)
	for _, k := range sortedKeys(response.Header) {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	p := path.Join(examplesPath, slug(title)+".md")
	err := os.WriteFile(p, []byte(s.String()), 0666)
	if err != nil {
		fmt.Println("Saving err:", err)
	}
}

func sortedKeys(h map[string][]string) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var slugReplacer = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string) string {
	return strings.Trim(slugReplacer.ReplaceAllString(strings.ToLower(title), "_"), "_")
}

func formatJSON(body string) string {

	var i interface{}

	err := json.Unmarshal([]byte(body), &i)
	if err != nil {
		return body
	}

	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(bytes)
}

// cropTabs removes the indentation shared by the lines of a raw string
// literal written inside test code.
func cropTabs(d string) string {
	lines := strings.Split(d, "\n")

	minTabs := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || c < minTabs {
			minTabs = c
		}
	}
	if minTabs <= 0 {
		return strings.TrimSpace(d) + "\n"
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}
