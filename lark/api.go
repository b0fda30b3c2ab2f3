package lark

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/rageval"
)

// ObjTypeDocx is the only wiki object type the loaders read.
const ObjTypeDocx = "docx"

// NodesPageSize is the page size used when listing wiki nodes.
const NodesPageSize = 50

// Document is the metadata of a docx document.
type Document struct {
	DocumentID string `json:"document_id"`
	RevisionID int    `json:"revision_id"`
	Title      string `json:"title"`
}

// Node is a wiki node.
type Node struct {
	SpaceID         string `json:"space_id"`
	NodeToken       string `json:"node_token"`
	ObjToken        string `json:"obj_token"`
	ObjType         string `json:"obj_type"`
	ParentNodeToken string `json:"parent_node_token"`
	NodeType        string `json:"node_type"`
	HasChild        bool   `json:"has_child"`
	Title           string `json:"title"`
	Owner           string `json:"owner"`
	Creator         string `json:"creator"`
}

// Space is a wiki space.
type Space struct {
	SpaceID     string `json:"space_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NodePage is one page of a wiki node listing.
type NodePage struct {
	Items     []*Node `json:"items"`
	PageToken string  `json:"page_token"`
	HasMore   bool    `json:"has_more"`
}

// GetDocument fetches docx document metadata.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	var data struct {
		Document *Document `json:"document"`
	}
	path := "/open-apis/docx/v1/documents/" + url.PathEscape(documentID)
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.Document == nil {
		return nil, rageval.Errorf(rageval.EREMOTE, "document %s missing from response", documentID)
	}
	return data.Document, nil
}

// GetContent fetches the content of a docx document as markdown.
// A document without content yields an empty string.
func (c *Client) GetContent(ctx context.Context, docToken string) (string, error) {
	var data struct {
		Content *string `json:"content"`
	}
	query := url.Values{
		"doc_token":    {docToken},
		"doc_type":     {"docx"},
		"content_type": {"markdown"},
	}
	if err := c.call(ctx, http.MethodGet, "/open-apis/docs/v1/content", query, &data); err != nil {
		return "", err
	}
	if data.Content == nil {
		return "", nil
	}
	return *data.Content, nil
}

// GetNode resolves a wiki node token.
func (c *Client) GetNode(ctx context.Context, token string) (*Node, error) {
	var data struct {
		Node *Node `json:"node"`
	}
	query := url.Values{"token": {token}, "obj_type": {"wiki"}}
	if err := c.call(ctx, http.MethodGet, "/open-apis/wiki/v2/spaces/get_node", query, &data); err != nil {
		return nil, err
	}
	if data.Node == nil {
		return nil, rageval.Errorf(rageval.EREMOTE, "wiki node %s missing from response", token)
	}
	return data.Node, nil
}

// GetSpace fetches wiki space details.
func (c *Client) GetSpace(ctx context.Context, spaceID string) (*Space, error) {
	var data struct {
		Space *Space `json:"space"`
	}
	path := "/open-apis/wiki/v2/spaces/" + url.PathEscape(spaceID)
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.Space == nil {
		return nil, rageval.Errorf(rageval.EREMOTE, "wiki space %s missing from response", spaceID)
	}
	return data.Space, nil
}

// ListNodes lists one page of the children of parentNodeToken, or of the
// space root when parentNodeToken is empty.
func (c *Client) ListNodes(ctx context.Context, spaceID, parentNodeToken, pageToken string) (*NodePage, error) {
	query := url.Values{"page_size": {strconv.Itoa(NodesPageSize)}}
	if parentNodeToken != "" {
		query.Set("parent_node_token", parentNodeToken)
	}
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}

	var page NodePage
	path := "/open-apis/wiki/v2/spaces/" + url.PathEscape(spaceID) + "/nodes"
	if err := c.call(ctx, http.MethodGet, path, query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
