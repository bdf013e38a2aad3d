package client

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (compatible; gpqa-tracker/1.0)"
	defaultMaxBodySize = 4 * 1024 * 1024
)

// Client fetches benchmark pages and reduces them to visible text
type Client struct {
	timeout     time.Duration
	userAgent   string
	maxBodySize int
}

// NewClient creates a new page client
func NewClient(options ...Option) *Client {
	c := &Client{
		timeout:     defaultTimeout,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Option defines a client option
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithMaxBodySize caps how many bytes of a response are read
func WithMaxBodySize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// FetchText retrieves pageURL and returns its visible text. Transport
// failures and non-2xx responses are returned as errors.
func (c *Client) FetchText(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "client: fetch")
	}

	collector := colly.NewCollector(
		colly.UserAgent(c.userAgent),
		colly.MaxBodySize(c.maxBodySize),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(c.timeout)

	var body []byte
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := collector.Visit(pageURL); err != nil {
		return "", eris.Wrapf(err, "client: fetch %s", pageURL)
	}
	if body == nil {
		return "", eris.Errorf("client: fetch %s: empty response", pageURL)
	}

	text, err := VisibleText(string(body))
	if err != nil {
		return "", eris.Wrapf(err, "client: parse %s", pageURL)
	}
	return text, nil
}

// skippedElements never contribute visible text
var skippedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// VisibleText parses an HTML document and returns its text nodes, each
// trimmed and joined with a single space. The result is NFKC-normalised so
// non-breaking spaces and full-width digits read like their ASCII forms.
func VisibleText(document string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", eris.Wrap(err, "client: parse HTML")
	}

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}

	text := norm.NFKC.String(strings.Join(parts, " "))
	return strings.Join(strings.Fields(text), " "), nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
	case html.CommentNode:
		return
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}
