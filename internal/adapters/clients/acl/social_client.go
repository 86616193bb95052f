package acl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/clients"
	"github.com/jsamuelsen/quote-card-bot/internal/domain"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/config"
	"github.com/jsamuelsen/quote-card-bot/internal/platform/logging"
)

const (
	mediaUploadPath = "/v1/media"
	createPostPath  = "/v2/posts"

	// maxMediaBytes is the largest image the social API accepts.
	maxMediaBytes = 5 << 20
)

// SocialClientConfig contains configuration for the social client.
type SocialClientConfig struct {
	// Client's BaseURL points at the social API. Build it with Auth set from TokenAuth.
	Client *clients.Client

	Logger *slog.Logger
}

// SocialClient posts a card image with a caption.
// Implements ports.Publisher.
type SocialClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewSocialClient creates a social publishing adapter.
// Panics if Client is nil.
func NewSocialClient(cfg SocialClientConfig) *SocialClient {
	if cfg.Client == nil {
		panic("SocialClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SocialClient{
		BaseAdapter: NewBaseAdapter(cfg.Client),
		logger:      logger.With(slog.String("component", "acl.SocialClient")),
	}
}

// TokenSource builds a refreshing OAuth2 token source from publisher settings.
// A configured access token is used as-is. Without one, the refresh token is
// exchanged at TokenURL on first use and again whenever the issued token expires.
func TokenSource(ctx context.Context, pc config.PublisherConfig) oauth2.TokenSource {
	oc := &oauth2.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: pc.TokenURL},
		Scopes:       pc.Scopes,
	}

	seed := &oauth2.Token{
		AccessToken:  pc.AccessToken,
		RefreshToken: pc.RefreshToken,
	}

	return oc.TokenSource(ctx, seed)
}

// TokenAuth adapts a token source to clients.AuthFunc.
func TokenAuth(ts oauth2.TokenSource) clients.AuthFunc {
	return func(req *http.Request) error {
		tok, err := ts.Token()
		if err != nil {
			return fmt.Errorf("fetching oauth2 token: %w", err)
		}

		tok.SetAuthHeader(req)

		return nil
	}
}

// mediaUploaded is the upload endpoint's answer.
type mediaUploaded struct {
	MediaID string `json:"media_id_string"`
}

// postRequest is the create-post payload.
type postRequest struct {
	Text  string    `json:"text"`
	Media postMedia `json:"media"`
}

type postMedia struct {
	MediaIDs []string `json:"media_ids"`
}

// postCreated is the create-post answer.
type postCreated struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Publish uploads the image at filePath and posts it with caption.
func (c *SocialClient) Publish(ctx context.Context, filePath, caption string) error {
	logger := logging.FromContextOr(ctx, c.logger)

	image, err := readMedia(filePath)
	if err != nil {
		return err
	}

	mediaID, err := c.upload(ctx, filepath.Base(filePath), image)
	if err != nil {
		return err
	}

	logger.Log(ctx, logging.LevelTrace, "media uploaded", slog.String("media_id", mediaID))

	body, err := c.PostJSON(ctx, createPostPath, postRequest{
		Text:  caption,
		Media: postMedia{MediaIDs: []string{mediaID}},
	}, Target{Operation: "create post", Entity: "media", ID: mediaID})
	if err != nil {
		return err
	}

	created, err := DecodeResponse[postCreated](body)
	if err != nil {
		return domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	logger.InfoContext(ctx, "card published",
		slog.String("post_id", created.Data.ID),
		slog.String("caption", caption))

	return nil
}

func (c *SocialClient) upload(ctx context.Context, name string, image []byte) (string, error) {
	payload, contentType, err := multipartImage(name, image)
	if err != nil {
		return "", err
	}

	body, err := c.Post(ctx, mediaUploadPath, contentType, payload, Target{Operation: "upload media"})
	if err != nil {
		return "", err
	}

	uploaded, err := DecodeResponse[mediaUploaded](body)
	if err != nil {
		return "", domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	if err := ValidateRequired(uploaded.MediaID, "media_id_string"); err != nil {
		return "", domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	return uploaded.MediaID, nil
}

func readMedia(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening card image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxMediaBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading card image: %w", err)
	}

	if len(data) > maxMediaBytes {
		return nil, domain.NewValidationError("image", fmt.Sprintf("%s exceeds %d bytes", path, maxMediaBytes))
	}

	return data, nil
}

// multipartImage encodes image as the "media" part of a form.
func multipartImage(name string, image []byte) ([]byte, string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="media"; filename=%q`, strings.ReplaceAll(name, `"`, "")))
	header.Set("Content-Type", "image/png")

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("building upload form: %w", err)
	}

	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("building upload form: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("building upload form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
