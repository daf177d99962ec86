package remote

import (
	"context"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// ResourceService is the client side of the link service.
type ResourceService struct {
	c *Client
}

func NewResourceService(c *Client) *ResourceService {
	return &ResourceService{c: c}
}

func (s *ResourceService) ListLinks(ctx context.Context, token string) ([]domain.Bookmark, error) {
	var recs []linkRecord
	if err := s.c.do(ctx, request{op: "list links", method: http.MethodGet, path: "/links", token: token}, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.Bookmark, 0, len(recs))
	for _, r := range recs {
		b, err := r.bookmark()
		if err != nil {
			return finish[[]domain.Bookmark]("list links", nil, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *ResourceService) CreateLink(ctx context.Context, token string, d domain.BookmarkDraft) (domain.Bookmark, error) {
	var rec linkRecord
	if err := s.c.do(ctx, request{
		op:     "create link",
		method: http.MethodPost,
		path:   "/links",
		token:  token,
		json:   linkCreate{Title: d.Title, URL: d.URL, FolderID: d.FolderID},
	}, &rec); err != nil {
		return domain.Bookmark{}, err
	}
	b, err := rec.bookmark()
	return finish("create link", b, err)
}

func (s *ResourceService) DeleteLink(ctx context.Context, token string, id int64) error {
	return s.c.do(ctx, request{
		op:     "delete link",
		method: http.MethodDelete,
		path:   "/links/" + strconv.FormatInt(id, 10),
		token:  token,
	}, nil)
}

func (s *ResourceService) ListFolders(ctx context.Context, token string) ([]domain.Folder, error) {
	var recs []folderRecord
	if err := s.c.do(ctx, request{op: "list folders", method: http.MethodGet, path: "/folders", token: token}, &recs); err != nil {
		return nil, err
	}

	out := make([]domain.Folder, 0, len(recs))
	for _, r := range recs {
		f, err := r.folder()
		if err != nil {
			return finish[[]domain.Folder]("list folders", nil, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *ResourceService) CreateFolder(ctx context.Context, token, name string) (domain.Folder, error) {
	var rec folderRecord
	if err := s.c.do(ctx, request{
		op:     "create folder",
		method: http.MethodPost,
		path:   "/folders",
		token:  token,
		json:   folderCreate{Name: name},
	}, &rec); err != nil {
		return domain.Folder{}, err
	}
	f, err := rec.folder()
	return finish("create folder", f, err)
}
