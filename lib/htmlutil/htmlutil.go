package htmlutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("banks-etl.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FirstText returns the data of the first direct text child of node, it
// is the equivalent of taking the first entry of an element's contents.
func FirstText(node *html.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			return child.Data, true
		}
	}
	return "", false
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// Clean strips non printable characters and collapses runs of whitespace.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t")
	return innerWhitespace.ReplaceAllString(s, " ")
}

type Anchor struct {
	Name  string
	Href  string
	Title string
}

func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := make([]Anchor, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		var href, title string
		for _, a := range n.Attr {
			switch a.Key {
			case "href":
				href = a.Val
			case "title":
				title = a.Val
			}
		}

		name := Clean(GetText(n))
		anchors = append(anchors, Anchor{
			Name:  name,
			Href:  href,
			Title: title,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("title", title),
			attribute.String("url", href),
		))
	}

	return anchors
}
