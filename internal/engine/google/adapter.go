// Package google provides a transcription engine adapter for Google Cloud
// Speech-to-Text streaming recognition.
package google

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/rs/zerolog/log"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/media"
	"subtitle-generator/internal/models"
)

// streamChunk is the audio payload size per streaming request.
const streamChunk = 32 * 1024

// Adapter implements engine.Engine using Google Cloud Speech-to-Text.
// Requires GOOGLE_APPLICATION_CREDENTIALS to be set.
type Adapter struct {
	client *speech.Client
}

// New creates a new Google engine adapter.
func New(ctx context.Context) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google engine: %w", err)
	}
	return &Adapter{client: c}, nil
}

// Transcribe streams the request's audio through a recognition session and
// forwards every final result on out in engine order.
func (a *Adapter) Transcribe(ctx context.Context, req engine.Request, out chan<- models.Segment) error {
	if req.Translate {
		return errors.New("google engine: translation is not supported")
	}

	samples, rate, err := loadAudio(req)
	if err != nil {
		return err
	}

	stream, err := a.client.StreamingRecognize(ctx)
	if err != nil {
		return mapGRPCError(err)
	}

	lang := req.Language
	if lang == "" {
		lang = "en-US"
	}

	// Config is the first message on the stream.
	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:              speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:       int32(rate),
					LanguageCode:          lang,
					EnableWordTimeOffsets: true,
				},
			},
		},
	}); err != nil {
		return mapGRPCError(err)
	}

	sendErr := make(chan error, 1)
	go func() {
		sendErr <- sendAudio(ctx, stream, pcm16(samples))
	}()

	var segments int
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return mapGRPCError(err)
		}
		for _, r := range resp.Results {
			if !r.IsFinal || len(r.Alternatives) == 0 {
				continue
			}
			seg := toSegment(r)
			select {
			case out <- seg:
				segments++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if err := <-sendErr; err != nil {
		return err
	}

	log.Debug().
		Str("component", "engine-google").
		Int("segments", segments).
		Msg("Recognition stream drained")

	return nil
}

// DetectLanguage runs a short recognition pass with alternative language
// codes enabled and reports the language Google attributed to the audio.
func (a *Adapter) DetectLanguage(ctx context.Context, req engine.Request) (string, error) {
	samples, rate, err := loadAudio(req)
	if err != nil {
		return "", err
	}
	// A prefix is enough for identification.
	if max := rate * 30; len(samples) > max {
		samples = samples[:max]
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                 speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:          int32(rate),
			LanguageCode:             "en-US",
			AlternativeLanguageCodes: []string{"zh-TW", "ja-JP", "es-ES", "de-DE", "fr-FR"},
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm16(samples)},
		},
	})
	if err != nil {
		return "", mapGRPCError(err)
	}
	for _, r := range resp.Results {
		if r.LanguageCode != "" {
			return r.LanguageCode, nil
		}
	}
	return "", errors.New("google engine: no language reported")
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

func sendAudio(ctx context.Context, stream speechpb.Speech_StreamingRecognizeClient, audio []byte) error {
	defer stream.CloseSend()
	for len(audio) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := streamChunk
		if n > len(audio) {
			n = len(audio)
		}
		if err := stream.Send(&speechpb.StreamingRecognizeRequest{
			StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
				AudioContent: audio[:n],
			},
		}); err != nil {
			// The receive loop surfaces the stream's terminal status.
			if err == io.EOF {
				return nil
			}
			return mapGRPCError(err)
		}
		audio = audio[n:]
	}
	return nil
}

func toSegment(r *speechpb.StreamingRecognitionResult) models.Segment {
	alt := r.Alternatives[0]
	seg := models.Segment{
		Text:           strings.TrimSpace(alt.Transcript),
		Language:       r.LanguageCode,
		Probability:    float64(alt.Confidence),
		HasProbability: alt.Confidence > 0,
		Channel:        models.ChannelNotApplicable,
		End:            pbDuration(r.ResultEndTime),
	}
	if len(alt.Words) > 0 {
		seg.Start = pbDuration(alt.Words[0].StartTime)
		if end := pbDuration(alt.Words[len(alt.Words)-1].EndTime); end > 0 {
			seg.End = end
		}
	}
	return seg
}

func pbDuration(d *durationpb.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return d.AsDuration()
}

// pcm16 converts normalized samples to little-endian 16-bit PCM bytes.
func pcm16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*32767)))
	}
	return out
}

func loadAudio(req engine.Request) ([]float32, int, error) {
	if req.AudioPath != "" {
		return media.DecodeWAV(req.AudioPath)
	}
	if len(req.Samples) > 0 {
		return req.Samples, req.SampleRate, nil
	}
	return nil, 0, errors.New("google engine: request carries no audio")
}

func mapGRPCError(err error) error {
	switch status.Code(err) {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	default:
		return fmt.Errorf("google engine: %w", err)
	}
}
