package formats

import (
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/ytarc/internal/models"
)

func TestResolver(t *testing.T) {
	resolver := NewResolver()

	t.Run("VideoThreeTiers", func(t *testing.T) {
		pref := models.FormatPreference{MediaType: models.Video, VideoQuality: models.P1080}
		plan := resolver.Resolve(pref, nil)

		if len(plan) != 3 {
			t.Fatalf("expected 3 tiers, got %d", len(plan))
		}

		if plan[0].Selector != "best[height<=1080]" {
			t.Errorf("tier 1 should be combined stream at requested quality, got %q", plan[0].Selector)
		}
		if plan[1].Selector != "bestvideo[height<=1080]+bestaudio" {
			t.Errorf("tier 2 should merge separately-best audio, got %q", plan[1].Selector)
		}
		if plan[2].Selector != "best" {
			t.Errorf("tier 3 should be best available, got %q", plan[2].Selector)
		}

		for i, spec := range plan {
			if spec.ExtractAudio {
				t.Errorf("tier %d of a video plan should not extract audio", i+1)
			}
		}
	})

	t.Run("VideoQualities", func(t *testing.T) {
		for _, q := range []models.VideoQuality{models.P240, models.P360, models.P480, models.P720, models.P1440, models.P2160} {
			pref := models.FormatPreference{MediaType: models.Video, VideoQuality: q}
			plan := resolver.Resolve(pref, nil)

			want := q.String()
			if !strings.Contains(plan[0].Label, strings.TrimSuffix(want, "p")) {
				t.Errorf("tier 1 label %q should mention %s", plan[0].Label, want)
			}
		}
	})

	t.Run("AudioEndsWithGenericFallback", func(t *testing.T) {
		pref := models.FormatPreference{
			MediaType:        models.Audio,
			AudioBitrateKbps: 320,
			AudioFormat:      models.FLAC,
		}
		plan := resolver.Resolve(pref, nil)

		if len(plan) != 2 {
			t.Fatalf("expected 2 tiers, got %d", len(plan))
		}

		first := plan[0]
		if !first.ExtractAudio || first.AudioCodec != "flac" || first.AudioBitrate != 320 {
			t.Errorf("tier 1 should extract flac at 320kbps, got %+v", first)
		}

		last := plan[len(plan)-1]
		if !last.ExtractAudio {
			t.Error("final audio tier should still extract audio")
		}
		if last.AudioCodec != "mp3" {
			t.Errorf("final tier should use the default format, got %q", last.AudioCodec)
		}
		if last.AudioBitrate != 0 {
			t.Errorf("final tier should not pin a bitrate, got %d", last.AudioBitrate)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		pref := models.FormatPreference{MediaType: models.Video, VideoQuality: models.P720}

		first := resolver.Resolve(pref, nil)
		for range 5 {
			if got := resolver.Resolve(pref, nil); !reflect.DeepEqual(got, first) {
				t.Fatalf("plan should be deterministic: %+v != %+v", got, first)
			}
		}
	})

	t.Run("CapabilityClamp", func(t *testing.T) {
		pref := models.FormatPreference{MediaType: models.Video, VideoQuality: models.P2160}

		plan := resolver.Resolve(pref, &CapabilitySnapshot{MaxHeight: 720})
		if plan[0].Selector != "best[height<=720]" {
			t.Errorf("snapshot should clamp tier 1, got %q", plan[0].Selector)
		}

		unclamped := resolver.Resolve(pref, &CapabilitySnapshot{MaxHeight: 4320})
		if unclamped[0].Selector != "best[height<=2160]" {
			t.Errorf("taller ceiling should not raise the request, got %q", unclamped[0].Selector)
		}

		noCaps := resolver.Resolve(pref, nil)
		if noCaps[0].Selector != "best[height<=2160]" {
			t.Errorf("absent snapshot should change nothing, got %q", noCaps[0].Selector)
		}
	})
}
