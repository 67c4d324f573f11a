// Package archive exports a season's predictions to S3-compatible storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/okian/pennant/internal/config"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
	"github.com/okian/pennant/internal/domain/titles"
	"github.com/okian/pennant/pkg/metrics"
)

var (
	ErrBucketRequired = errors.New("archive bucket required")
	ErrPut            = errors.New("archive put failed")
)

// putObjectAPI is the slice of *s3.Client the archiver needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is everything exported for one season.
type Snapshot struct {
	Season    int
	Standings map[catalog.League][]model.Prediction
	Titles    []titles.Board
}

type standingsDoc struct {
	Season      int             `json:"season"`
	League      catalog.League  `json:"league"`
	ExportedAt  time.Time       `json:"exported_at"`
	Predictions []predictionDoc `json:"predictions"`
}

type predictionDoc struct {
	Owner     string    `json:"owner"`
	Rankings  []string  `json:"rankings"`
	Labels    []string  `json:"labels"`
	WrittenAt time.Time `json:"written_at"`
}

type titlesDoc struct {
	Season     int            `json:"season"`
	ExportedAt time.Time      `json:"exported_at"`
	Boards     []titles.Board `json:"boards"`
}

// S3Archiver writes season snapshots as JSON objects.
type S3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// New builds an archiver from cfg using the default AWS credential chain.
func New(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func newWithClient(client putObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Key returns the object key for name within season.
func (a *S3Archiver) Key(season int, name string) string {
	return path.Join(a.prefix, fmt.Sprint(season), name)
}

// Export writes one standings object per league present in snap plus the
// awards object, and returns the keys written in order. It stops at the
// first failed put.
func (a *S3Archiver) Export(ctx context.Context, snap Snapshot) (keys []string, err error) {
	defer func() {
		if err != nil {
			metrics.RecordArchiveExport(metrics.ResultFailed)
			return
		}
		metrics.RecordArchiveExport(metrics.ResultSaved)
	}()

	exportedAt := a.now().UTC()
	for _, league := range catalog.Leagues() {
		preds, ok := snap.Standings[league]
		if !ok {
			continue
		}
		doc := standingsDoc{
			Season:      snap.Season,
			League:      league,
			ExportedAt:  exportedAt,
			Predictions: toDocs(league, preds),
		}
		key := a.Key(snap.Season, "standings-"+string(league)+".json")
		if err := a.put(ctx, key, doc); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}

	boards := snap.Titles
	if boards == nil {
		boards = []titles.Board{}
	}
	key := a.Key(snap.Season, "titles.json")
	if err := a.put(ctx, key, titlesDoc{Season: snap.Season, ExportedAt: exportedAt, Boards: boards}); err != nil {
		return keys, err
	}
	return append(keys, key), nil
}

func (a *S3Archiver) put(ctx context.Context, key string, doc any) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPut, key, err)
	}
	metrics.RecordArchiveObject()
	return nil
}

func toDocs(league catalog.League, preds []model.Prediction) []predictionDoc {
	cat, _ := catalog.ForLeague(league)
	docs := make([]predictionDoc, 0, len(preds))
	for _, p := range preds {
		labels := make([]string, len(p.Rankings))
		for i, id := range p.Rankings {
			labels[i] = id
			if cat != nil {
				labels[i] = cat.Label(id)
			}
		}
		docs = append(docs, predictionDoc{
			Owner:     p.Owner,
			Rankings:  p.Rankings,
			Labels:    labels,
			WrittenAt: p.WrittenAt,
		})
	}
	return docs
}
