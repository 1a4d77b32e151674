// Package generator turns uploaded image bytes into a social media post by
// prompting a vision chat backend and parsing its free-text reply.
package generator

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/tkaric/postgen/pkg/client"
	"github.com/tkaric/postgen/pkg/payload"
	"github.com/tkaric/postgen/pkg/types"
)

// Generation modes.
const (
	// ModeSingle issues one vision call and splits the reply on the
	// hashtag separator convention.
	ModeSingle = "single"
	// ModeStaged runs the three-step pipeline: image caption, post content
	// from the caption, hashtags from the content.
	ModeStaged = "staged"
)

// defaultHashtags is the staged-mode fallback when the hashtag step fails.
var defaultHashtags = []string{"socialmedia", "post", "trending", "viral", "content"}

// Options configures a Generator.
type Options struct {
	// VisionModel handles prompts with an attached image.
	VisionModel string
	// TextModel handles the staged-mode text-only steps. Falls back to
	// VisionModel when empty.
	TextModel string
	// Platform names the target social network used in the prompts.
	Platform string
	// Mode selects ModeSingle or ModeStaged.
	Mode string
	// Payload controls the downscale/re-encode applied before upload.
	Payload types.PayloadOptions
}

// Generator produces a GeneratedPost from one image. It holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	client client.ChatClient
	opts   Options
	log    *zap.Logger
}

// New creates a Generator on top of a chat backend.
func New(chatClient client.ChatClient, opts Options, log *zap.Logger) *Generator {
	if opts.Mode == "" {
		opts.Mode = ModeSingle
	}
	if opts.TextModel == "" {
		opts.TextModel = opts.VisionModel
	}
	if opts.Platform == "" {
		opts.Platform = "Instagram"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{client: chatClient, opts: opts, log: log}
}

// Generate produces a post from raw image bytes and their declared MIME
// type. Errors are one of the client error classes or a decode failure.
func (g *Generator) Generate(ctx context.Context, data []byte, mimeType string) (*types.GeneratedPost, error) {
	img, _, err := payload.Decode(data, mimeType)
	if err != nil {
		return nil, err
	}
	return g.GenerateFromImage(ctx, img)
}

// GenerateFromImage produces a post from an already decoded image.
func (g *Generator) GenerateFromImage(ctx context.Context, img image.Image) (*types.GeneratedPost, error) {
	imgB64, err := payload.PrepareForModel(img, g.opts.Payload)
	if err != nil {
		return nil, err
	}

	switch g.opts.Mode {
	case ModeStaged:
		return g.generateStaged(ctx, imgB64)
	default:
		return g.generateSingle(ctx, imgB64)
	}
}

// generateSingle makes one vision call and parses the reply by the
// separator convention. Parsing never fails; a malformed reply degrades to
// raw text content.
func (g *Generator) generateSingle(ctx context.Context, imgB64 string) (*types.GeneratedPost, error) {
	prompt := fmt.Sprintf(singlePrompt, g.opts.Platform)

	reply, err := g.client.Chat(ctx, g.opts.VisionModel, prompt, imgB64)
	if err != nil {
		return nil, err
	}

	post := ParsePost(reply)
	g.log.Debug("post generated",
		zap.String("mode", ModeSingle),
		zap.Int("hashtags", len(post.Hashtags)))
	return post, nil
}

// generateStaged runs caption -> content -> hashtags as three calls. The
// hashtag step degrades to a canned tag list on failure; the earlier steps
// surface their errors.
func (g *Generator) generateStaged(ctx context.Context, imgB64 string) (*types.GeneratedPost, error) {
	caption, err := g.client.Chat(ctx, g.opts.VisionModel, captionPrompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("caption step: %w", err)
	}

	content, err := g.client.Chat(ctx, g.opts.TextModel, contentPrompt(g.opts.Platform, caption), "")
	if err != nil {
		return nil, fmt.Errorf("content step: %w", err)
	}
	content = stripFences(content)

	hashtags := g.generateHashtags(ctx, content)

	g.log.Debug("post generated",
		zap.String("mode", ModeStaged),
		zap.Int("hashtags", len(hashtags)))

	return &types.GeneratedPost{
		Content:  content,
		Hashtags: hashtags,
	}, nil
}

func (g *Generator) generateHashtags(ctx context.Context, content string) []string {
	reply, err := g.client.Chat(ctx, g.opts.TextModel, hashtagPrompt(g.opts.Platform, content), "")
	if err != nil {
		g.log.Warn("hashtag step failed, using fallback tags", zap.Error(err))
		return NormalizeHashtags(defaultHashtags)
	}

	tags, ok := parseHashtagJSON(reply)
	if !ok {
		// Last resort before the canned list: '#'-tokens in the reply.
		tags = ExtractHashtags(reply)
	}
	if len(tags) == 0 {
		return NormalizeHashtags(defaultHashtags)
	}
	return tags
}
