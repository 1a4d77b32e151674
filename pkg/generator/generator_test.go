package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/tkaric/postgen/pkg/client"
)

type chatCall struct {
	model    string
	prompt   string
	hasImage bool
}

// fakeClient replays scripted replies and records every call.
type fakeClient struct {
	replies []string
	errs    []error
	calls   []chatCall
}

func (f *fakeClient) Chat(_ context.Context, model, prompt, imgB64 string) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, chatCall{model: model, prompt: prompt, hasImage: imgB64 != ""})

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", fmt.Errorf("unexpected call %d", i)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 5), 128, 255})
		}
	}
	return img
}

func testPNGBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateSingleMode(t *testing.T) {
	fake := &fakeClient{
		replies: []string{"Lovely light today! ✨\n\nHashtags: #light #Morning #light"},
	}
	gen := New(fake, Options{VisionModel: "vision-model"}, nil)

	post, err := gen.Generate(context.Background(), testPNGBytes(t), "image/png")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if post.Content != "Lovely light today! ✨" {
		t.Errorf("unexpected content: %q", post.Content)
	}
	want := []string{"#light", "#morning"}
	if !reflect.DeepEqual(post.Hashtags, want) {
		t.Errorf("expected hashtags %v, got %v", want, post.Hashtags)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 chat call, got %d", len(fake.calls))
	}
	if fake.calls[0].model != "vision-model" {
		t.Errorf("expected vision model, got %q", fake.calls[0].model)
	}
	if !fake.calls[0].hasImage {
		t.Error("expected the image to be attached to the call")
	}
}

func TestGenerateSingleModeMalformedReply(t *testing.T) {
	fake := &fakeClient{replies: []string{"no separator anywhere in this reply"}}
	gen := New(fake, Options{VisionModel: "m"}, nil)

	post, err := gen.GenerateFromImage(context.Background(), testImage())
	if err != nil {
		t.Fatalf("expected graceful fallback, got error: %v", err)
	}
	if post.Content == "" {
		t.Error("expected raw reply as content")
	}
	if len(post.Hashtags) != 0 {
		t.Errorf("expected empty hashtag list, got %v", post.Hashtags)
	}
}

func TestGenerateNetworkFailure(t *testing.T) {
	fake := &fakeClient{errs: []error{fmt.Errorf("%w: connection refused", client.ErrUnavailable)}}
	gen := New(fake, Options{VisionModel: "m"}, nil)

	_, err := gen.GenerateFromImage(context.Background(), testImage())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, client.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerateAuthFailure(t *testing.T) {
	fake := &fakeClient{errs: []error{fmt.Errorf("%w: no API key configured", client.ErrAuth)}}
	gen := New(fake, Options{VisionModel: "m"}, nil)

	_, err := gen.GenerateFromImage(context.Background(), testImage())
	if !errors.Is(err, client.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
}

func TestGenerateRejectsBadImage(t *testing.T) {
	gen := New(&fakeClient{}, Options{VisionModel: "m"}, nil)

	_, err := gen.Generate(context.Background(), []byte("not an image"), "image/png")
	if err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestGenerateStagedMode(t *testing.T) {
	fake := &fakeClient{
		replies: []string{
			"A dog running on a sunny beach, waves in the background.",
			"Beach zoomies are the best zoomies! 🐶 Who else has a sand-obsessed pup?",
			`["dogsofinstagram", "beachlife", "puppylove"]`,
		},
	}
	gen := New(fake, Options{
		VisionModel: "vision-model",
		TextModel:   "text-model",
		Platform:    "Instagram",
		Mode:        ModeStaged,
	}, nil)

	post, err := gen.GenerateFromImage(context.Background(), testImage())
	if err != nil {
		t.Fatalf("GenerateFromImage failed: %v", err)
	}

	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 chat calls, got %d", len(fake.calls))
	}
	if !fake.calls[0].hasImage {
		t.Error("caption step should carry the image")
	}
	if fake.calls[1].hasImage || fake.calls[2].hasImage {
		t.Error("text steps should not carry the image")
	}
	if fake.calls[0].model != "vision-model" || fake.calls[1].model != "text-model" {
		t.Errorf("wrong models used: %q, %q", fake.calls[0].model, fake.calls[1].model)
	}
	if !strings.Contains(fake.calls[1].prompt, "dog running") {
		t.Error("content prompt should embed the caption")
	}
	if !strings.Contains(fake.calls[2].prompt, "zoomies") {
		t.Error("hashtag prompt should embed the content")
	}

	want := []string{"#dogsofinstagram", "#beachlife", "#puppylove"}
	if !reflect.DeepEqual(post.Hashtags, want) {
		t.Errorf("expected hashtags %v, got %v", want, post.Hashtags)
	}
}

func TestGenerateStagedHashtagFallback(t *testing.T) {
	fake := &fakeClient{
		replies: []string{"a caption", "some content", ""},
		errs:    []error{nil, nil, errors.New("model overloaded")},
	}
	gen := New(fake, Options{VisionModel: "m", Mode: ModeStaged}, nil)

	post, err := gen.GenerateFromImage(context.Background(), testImage())
	if err != nil {
		t.Fatalf("expected hashtag fallback, got error: %v", err)
	}
	if len(post.Hashtags) == 0 {
		t.Fatal("expected fallback hashtags")
	}
	for _, tag := range post.Hashtags {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("fallback hashtag %q missing '#' prefix", tag)
		}
	}
}

func TestGenerateStagedCaptionFailureSurfaces(t *testing.T) {
	fake := &fakeClient{errs: []error{fmt.Errorf("%w: timeout", client.ErrUnavailable)}}
	gen := New(fake, Options{VisionModel: "m", Mode: ModeStaged}, nil)

	_, err := gen.GenerateFromImage(context.Background(), testImage())
	if !errors.Is(err, client.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if len(fake.calls) != 1 {
		t.Errorf("pipeline should stop after the failed caption step, got %d calls", len(fake.calls))
	}
}

func TestNewDefaults(t *testing.T) {
	gen := New(&fakeClient{}, Options{VisionModel: "v"}, nil)

	if gen.opts.Mode != ModeSingle {
		t.Errorf("expected default mode %q, got %q", ModeSingle, gen.opts.Mode)
	}
	if gen.opts.TextModel != "v" {
		t.Errorf("expected text model to fall back to vision model, got %q", gen.opts.TextModel)
	}
	if gen.opts.Platform != "Instagram" {
		t.Errorf("expected default platform Instagram, got %q", gen.opts.Platform)
	}
}
