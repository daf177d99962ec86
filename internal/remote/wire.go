package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// Wire records use pointers so a missing field can be told apart from a
// zero value.

type tokenRecord struct {
	AccessToken *string `json:"access_token"`
	TokenType   *string `json:"token_type"`
}

func (r tokenRecord) token() (string, error) {
	if r.AccessToken == nil || strings.TrimSpace(*r.AccessToken) == "" {
		return "", errors.New("missing access_token")
	}
	if r.TokenType != nil && *r.TokenType != "" && !strings.EqualFold(*r.TokenType, "bearer") {
		return "", fmt.Errorf("unsupported token_type %q", *r.TokenType)
	}
	return *r.AccessToken, nil
}

type userRecord struct {
	ID       *int64  `json:"id"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
}

func (r userRecord) user() (domain.User, error) {
	if r.ID == nil {
		return domain.User{}, errors.New("user: missing id")
	}
	if r.Email == nil || *r.Email == "" {
		return domain.User{}, errors.New("user: missing email")
	}
	u := domain.User{ID: *r.ID, Email: *r.Email}
	if r.Username != nil {
		u.Username = *r.Username
	}
	return u, nil
}

type linkRecord struct {
	ID       *int64  `json:"id"`
	URL      *string `json:"url"`
	Title    *string `json:"title"`
	Image    *string `json:"image"`
	FolderID *int64  `json:"folder_id"`
}

func (r linkRecord) bookmark() (domain.Bookmark, error) {
	if r.ID == nil {
		return domain.Bookmark{}, errors.New("link: missing id")
	}
	if r.URL == nil || *r.URL == "" {
		return domain.Bookmark{}, fmt.Errorf("link %d: missing url", *r.ID)
	}
	b := domain.Bookmark{ID: *r.ID, URL: *r.URL, FolderID: r.FolderID}
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.Image != nil {
		b.ImageURL = *r.Image
	}
	return b, nil
}

type folderRecord struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

func (r folderRecord) folder() (domain.Folder, error) {
	if r.ID == nil {
		return domain.Folder{}, errors.New("folder: missing id")
	}
	if r.Name == nil {
		return domain.Folder{}, fmt.Errorf("folder %d: missing name", *r.ID)
	}
	return domain.Folder{ID: *r.ID, Name: *r.Name}, nil
}

type linkCreate struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	FolderID *int64 `json:"folder_id"`
}

type folderCreate struct {
	Name string `json:"name"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
