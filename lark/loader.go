package lark

import (
	"context"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/rageval"
)

// Ensure loaders implement rageval.DocumentLoader.
var (
	_ rageval.DocumentLoader = (*DocLoader)(nil)
	_ rageval.DocumentLoader = (*WikiLoader)(nil)
	_ rageval.DocumentLoader = (*SpaceLoader)(nil)
)

// NewLoader returns the loader for a source kind.
func NewLoader(client *Client, kind rageval.SourceKind, token string) (rageval.DocumentLoader, error) {
	if token == "" {
		return nil, rageval.Errorf(rageval.EINVALID, "%s token required", kind)
	}
	switch kind {
	case rageval.SourceDoc:
		return NewDocLoader(client, token), nil
	case rageval.SourceWiki:
		return NewWikiLoader(client, token), nil
	case rageval.SourceSpace:
		return NewSpaceLoader(client, token), nil
	}
	return nil, rageval.Errorf(rageval.EINVALID, "unsupported source kind %q", kind)
}

// DocLoader loads a single docx document.
type DocLoader struct {
	client     *Client
	documentID string
}

// NewDocLoader creates a loader for one docx document.
func NewDocLoader(client *Client, documentID string) *DocLoader {
	return &DocLoader{client: client, documentID: documentID}
}

// Load yields the document, or a single error.
func (l *DocLoader) Load(ctx context.Context) iter.Seq2[*rageval.Document, error] {
	return single(func() (*rageval.Document, error) {
		return loadDocument(ctx, l.client, l.documentID)
	})
}

// WikiLoader loads the docx document behind a wiki node.
type WikiLoader struct {
	client *Client
	token  string
}

// NewWikiLoader creates a loader for one wiki node.
func NewWikiLoader(client *Client, token string) *WikiLoader {
	return &WikiLoader{client: client, token: token}
}

// Load resolves the node and yields its document, or a single error.
func (l *WikiLoader) Load(ctx context.Context) iter.Seq2[*rageval.Document, error] {
	return single(func() (*rageval.Document, error) {
		node, err := l.client.GetNode(ctx, l.token)
		if err != nil {
			return nil, opError("failed to fetch wiki node", err)
		}
		return loadWikiDocument(ctx, l.client, l.token, node)
	})
}

// SpaceLoader loads every docx document in a wiki space.
type SpaceLoader struct {
	client  *Client
	spaceID string
}

// NewSpaceLoader creates a loader for a whole wiki space.
func NewSpaceLoader(client *Client, spaceID string) *SpaceLoader {
	return &SpaceLoader{client: client, spaceID: spaceID}
}

// Load walks the space depth-first. A node's document comes before its
// descendants, and siblings keep listing order across pages. Nodes of
// other object types are skipped but their children are still visited.
func (l *SpaceLoader) Load(ctx context.Context) iter.Seq2[*rageval.Document, error] {
	return func(yield func(*rageval.Document, error) bool) {
		space, err := l.client.GetSpace(ctx, l.spaceID)
		if err != nil {
			yield(nil, opError("failed to fetch wiki space", err))
			return
		}
		w := &spaceWalker{
			client:  l.client,
			spaceID: l.spaceID,
			space:   space,
			yield:   yield,
		}
		w.walk(ctx, "", nil)
	}
}

type spaceWalker struct {
	client  *Client
	spaceID string
	space   *Space
	yield   func(*rageval.Document, error) bool
}

// walk visits all children of parent, following every listing page.
// It returns false once the consumer stops or an error was yielded.
func (w *spaceWalker) walk(ctx context.Context, parent string, path []string) bool {
	var pageToken string
	for {
		page, err := w.client.ListNodes(ctx, w.spaceID, parent, pageToken)
		if err != nil {
			w.yield(nil, opError("failed to list wiki space nodes", err))
			return false
		}
		for _, node := range page.Items {
			if node == nil {
				continue
			}
			if !w.visit(ctx, node, path) {
				return false
			}
		}
		if !page.HasMore || page.PageToken == "" {
			return true
		}
		pageToken = page.PageToken
	}
}

func (w *spaceWalker) visit(ctx context.Context, node *Node, path []string) bool {
	nodePath := append(slices.Clip(path), node.Title)

	if node.ObjType == ObjTypeDocx {
		doc, err := loadWikiDocument(ctx, w.client, node.NodeToken, node)
		if err != nil {
			w.yield(nil, err)
			return false
		}
		doc.Metadata[rageval.MetaSource] = rageval.SchemeLarkSpace + w.spaceID
		doc.Metadata[rageval.MetaSpaceName] = w.space.Name
		doc.Metadata[rageval.MetaSpaceDescription] = w.space.Description
		doc.Metadata[rageval.MetaPath] = strings.Join(nodePath, "/")
		if !w.yield(doc, nil) {
			return false
		}
	}

	if node.HasChild {
		return w.walk(ctx, node.NodeToken, nodePath)
	}
	return true
}

func single(fn func() (*rageval.Document, error)) iter.Seq2[*rageval.Document, error] {
	return func(yield func(*rageval.Document, error) bool) {
		doc, err := fn()
		if err != nil {
			yield(nil, err)
			return
		}
		yield(doc, nil)
	}
}

func loadDocument(ctx context.Context, c *Client, documentID string) (*rageval.Document, error) {
	meta, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return nil, opError("failed to fetch document metadata", err)
	}
	content, err := c.GetContent(ctx, documentID)
	if err != nil {
		return nil, opError("failed to fetch document content", err)
	}
	return &rageval.Document{
		Content: content,
		Metadata: rageval.Metadata{
			rageval.MetaDocumentID: documentID,
			rageval.MetaRevisionID: strconv.Itoa(meta.RevisionID),
			rageval.MetaTitle:      meta.Title,
			rageval.MetaType:       rageval.TypeLarkDoc,
			rageval.MetaSource:     rageval.SchemeLarkDoc + documentID,
		},
	}, nil
}

func loadWikiDocument(ctx context.Context, c *Client, wikiToken string, node *Node) (*rageval.Document, error) {
	if node.ObjToken == "" {
		return nil, rageval.Errorf(rageval.EREMOTE, "wiki node %s does not contain a valid document ID", wikiToken)
	}
	if node.ObjType != ObjTypeDocx {
		return nil, rageval.Errorf(rageval.EINVALID, "wiki node %s holds unsupported object type %q", wikiToken, node.ObjType)
	}

	doc, err := loadDocument(ctx, c, node.ObjToken)
	if err != nil {
		return nil, err
	}
	m := doc.Metadata
	m[rageval.MetaSource] = rageval.SchemeLarkWiki + wikiToken
	m[rageval.MetaType] = rageval.TypeLarkWiki
	m[rageval.MetaOwner] = node.Owner
	m[rageval.MetaCreator] = node.Creator
	m[rageval.MetaSpaceID] = node.SpaceID
	m[rageval.MetaNodeToken] = node.NodeToken
	m[rageval.MetaParentNodeToken] = node.ParentNodeToken
	m[rageval.MetaHasChild] = node.HasChild
	return doc, nil
}
