package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/ytarc/internal/classify"
)

func TestLastOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   string
	}{
		{"single path", "/downloads/video/Some Title [abc123].mp4\n", "/downloads/video/Some Title [abc123].mp4"},
		{"path after json", "{\"id\": \"abc\"}\n/downloads/audio/track.mp3\n", "/downloads/audio/track.mp3"},
		{"last path wins", "/tmp/partial.webm\n/downloads/final.mp4\n", "/downloads/final.mp4"},
		{"no path", "{\"id\": \"abc\"}\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastOutputPath(tt.stdout); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	svc := NewYTDLPService(nil)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"format", errors.New("ERROR: Requested format is not available"), ErrFormatUnavailable},
		{"no formats", errors.New("ERROR: No video formats found"), ErrFormatUnavailable},
		{"private", errors.New("ERROR: Private video. Sign in if you've been granted access"), ErrAccessDenied},
		{"forbidden", errors.New("HTTP Error 403: Forbidden"), ErrAccessDenied},
		{"network", errors.New("unable to download webpage: connection reset"), ErrNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.classifyError(context.Background(), tt.err, nil)
			if !errors.Is(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()

		got := svc.classifyError(ctx, errors.New("killed"), nil)
		if !errors.Is(got, ErrFetchTimeout) {
			t.Errorf("expected ErrFetchTimeout, got %v", got)
		}
	})
}

func TestEnumerationURL(t *testing.T) {
	channel, err := classify.Classify("https://www.youtube.com/@somecreator")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if got := enumerationURL(channel); got != "https://www.youtube.com/@somecreator/videos" {
		t.Errorf("channel should enumerate the uploads tab, got %q", got)
	}

	playlist, err := classify.Classify("https://www.youtube.com/playlist?list=PLabc")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if got := enumerationURL(playlist); got != playlist.CleanURL {
		t.Errorf("playlist URL should pass through, got %q", got)
	}
}
