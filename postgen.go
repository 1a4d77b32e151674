// Package postgen generates social media posts from images.
//
// The package sends an uploaded image to a hosted multimodal chat endpoint
// and parses the free-text reply into post content plus a hashtag list.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//		"os"
//
//		"github.com/tkaric/postgen"
//	)
//
//	func main() {
//		pg, err := postgen.New(os.Getenv("GROQ_API_KEY"))
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		data, err := os.ReadFile("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		post, err := pg.GeneratePost(context.Background(), data, "image/jpeg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Println(post.Content)
//		fmt.Println(post.Hashtags)
//	}
//
// The package consists of four main components:
//
// 1. Payload (pkg/payload): upload decoding and base64 JPEG payload preparation
// 2. Clients (pkg/groq, pkg/ollama): chat-completion backends behind one interface
// 3. Generator (pkg/generator): prompt construction and reply parsing
// 4. Server (internal/...): the web UI wiring around the generator
package postgen

import (
	"context"
	"image"

	"github.com/tkaric/postgen/pkg/client"
	"github.com/tkaric/postgen/pkg/generator"
	"github.com/tkaric/postgen/pkg/groq"
	"github.com/tkaric/postgen/pkg/types"
)

// Version of the postgen library
const Version = "1.0.0"

// DefaultVisionModel is the hosted vision model used when none is configured.
const DefaultVisionModel = "meta-llama/llama-4-scout-17b-16e-instruct"

// PostGenerator provides a high-level interface for turning images into posts.
type PostGenerator struct {
	gen *generator.Generator
}

// New creates a PostGenerator against the hosted Groq endpoint with default
// options.
func New(apiKey string) (*PostGenerator, error) {
	chatClient, err := groq.NewClient("", apiKey)
	if err != nil {
		return nil, err
	}

	return NewWithClient(chatClient, generator.Options{
		VisionModel: DefaultVisionModel,
		Payload:     types.PayloadOptions{MaxLongSide: 1536, Quality: 85},
	}), nil
}

// NewWithClient creates a PostGenerator on top of any chat backend.
func NewWithClient(chatClient client.ChatClient, opts generator.Options) *PostGenerator {
	return &PostGenerator{gen: generator.New(chatClient, opts, nil)}
}

// GeneratePost produces a post from raw image bytes and their MIME type.
func (p *PostGenerator) GeneratePost(ctx context.Context, data []byte, mimeType string) (*types.GeneratedPost, error) {
	return p.gen.Generate(ctx, data, mimeType)
}

// GeneratePostFromImage produces a post from an already decoded image.
func (p *PostGenerator) GeneratePostFromImage(ctx context.Context, img image.Image) (*types.GeneratedPost, error) {
	return p.gen.GenerateFromImage(ctx, img)
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
