package main

import (
	"fmt"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// fetchWebDocument downloads a single HTML page and converts it to Markdown,
// returning it as a preloaded candidate whose path is the URL itself. Only
// text/html responses are accepted; chrome elements are stripped before
// conversion so the Markdown carries the page's actual content.
func fetchWebDocument(pageURL string) (FileCandidate, error) {
	res, err := http.Get(pageURL)
	if err != nil {
		return FileCandidate{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return FileCandidate{}, fmt.Errorf("status code %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return FileCandidate{}, fmt.Errorf("unsupported content type %q", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return FileCandidate{}, fmt.Errorf("could not parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, nav, header, footer").Remove()

	converter := md.NewConverter("", true, nil)
	markdown := strings.TrimSpace(converter.Convert(doc.Selection))
	if markdown == "" {
		return FileCandidate{}, fmt.Errorf("page has no convertible content")
	}

	logger.Debug("web document fetched",
		zap.String("url", pageURL),
		zap.Int("markdown_bytes", len(markdown)))

	return FileCandidate{
		Path:    pageURL,
		Rel:     pageURL,
		Size:    int64(len(markdown)),
		Content: []byte(markdown),
	}, nil
}
