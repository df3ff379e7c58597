package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ishankhire/gt-meal-planning/internal/cloudwriter"
	"github.com/ishankhire/gt-meal-planning/internal/repositories"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// NutritionRow is one nutrition cache entry flattened for Parquet.
type NutritionRow struct {
	FoodKey  string `parquet:"name=foodKey,type=BYTE_ARRAY,convertedtype=UTF8"`
	Calories int64  `parquet:"name=calories,type=INT64"`
	Protein  int64  `parquet:"name=protein,type=INT64"`
	Carbs    int64  `parquet:"name=carbs,type=INT64"`
	Fat      int64  `parquet:"name=fat,type=INT64"`
	Tags     string `parquet:"name=tags,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// RatingRow is one stored (user, food) rating flattened for Parquet.
type RatingRow struct {
	Email   string `parquet:"name=email,type=BYTE_ARRAY,convertedtype=UTF8"`
	FoodKey string `parquet:"name=foodKey,type=BYTE_ARRAY,convertedtype=UTF8"`
	Rating  string `parquet:"name=rating,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// Exporter dumps the nutrition cache and ratings tables to Parquet files
// named by export date, through a cloud writer factory (local dir or S3).
type Exporter struct {
	nutrition repositories.NutritionRepository
	ratings   repositories.RatingRepository
	factory   cloudwriter.CloudWriterFactory
	bucket    string
	folder    string
}

func NewExporter(
	nutrition repositories.NutritionRepository,
	ratings repositories.RatingRepository,
	factory cloudwriter.CloudWriterFactory,
	bucket, folder string,
) *Exporter {
	return &Exporter{
		nutrition: nutrition,
		ratings:   ratings,
		factory:   factory,
		bucket:    bucket,
		folder:    folder,
	}
}

// Run exports both tables. Each table failure aborts the run: a partial
// export directory is worse than a clearly failed one.
func (e *Exporter) Run(ctx context.Context) error {
	stamp := time.Now().Format("2006-01-02")

	if err := e.exportNutrition(ctx, stamp); err != nil {
		return fmt.Errorf("nutrition export failed: %w", err)
	}
	if err := e.exportRatings(ctx, stamp); err != nil {
		return fmt.Errorf("ratings export failed: %w", err)
	}
	return nil
}

func (e *Exporter) exportNutrition(ctx context.Context, stamp string) error {
	all, err := e.nutrition.GetAll(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pw, closeFile, err := e.newWriter(stamp, "nutrition_cache.parquet", new(NutritionRow))
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(keys)), "nutrition cache")
	for _, key := range keys {
		est := all[key]
		row := NutritionRow{
			FoodKey:  key,
			Calories: int64(est.Calories),
			Protein:  int64(est.Protein),
			Carbs:    int64(est.Carbs),
			Fat:      int64(est.Fat),
			Tags:     strings.Join(est.Tags, ","),
		}
		if err := pw.Write(row); err != nil {
			closeFile()
			return fmt.Errorf("failed to write row for %s: %w", key, err)
		}
		_ = bar.Add(1)
	}

	return finishWriter(pw, closeFile)
}

func (e *Exporter) exportRatings(ctx context.Context, stamp string) error {
	records, err := e.ratings.Dump(ctx)
	if err != nil {
		return err
	}

	pw, closeFile, err := e.newWriter(stamp, "food_ratings.parquet", new(RatingRow))
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(records)), "food ratings")
	for _, rec := range records {
		row := RatingRow{
			Email:   rec.Email,
			FoodKey: rec.FoodKey,
			Rating:  string(rec.Rating),
		}
		if err := pw.Write(row); err != nil {
			closeFile()
			return fmt.Errorf("failed to write rating row: %w", err)
		}
		_ = bar.Add(1)
	}

	return finishWriter(pw, closeFile)
}

func (e *Exporter) newWriter(stamp, name string, schema interface{}) (*writer.ParquetWriter, func(), error) {
	objectPath := filepath.Join(e.folder, stamp, name)
	cw, err := e.factory.NewWriter(e.bucket, objectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", objectPath, err)
	}

	fw := newBufferedParquetFile(cw)
	pw, err := writer.NewParquetWriter(fw, schema, 4)
	if err != nil {
		_ = fw.Close()
		return nil, nil, fmt.Errorf("failed to create parquet writer for %s: %w", objectPath, err)
	}

	closeFile := func() {
		if err := fw.Close(); err != nil {
			log.Warn().Err(err).Str("object", objectPath).Msg("failed to close export file")
		}
	}
	return pw, closeFile, nil
}

func finishWriter(pw *writer.ParquetWriter, closeFile func()) error {
	if err := pw.WriteStop(); err != nil {
		closeFile()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	closeFile()
	return nil
}

// bufferedParquetFile adapts a CloudWriter to the parquet source.ParquetFile
// interface. Only sequential writes are supported; the parquet writer never
// reads back or seeks from the end on the write path.
type bufferedParquetFile struct {
	cw     cloudwriter.CloudWriter
	offset int64
}

func newBufferedParquetFile(cw cloudwriter.CloudWriter) *bufferedParquetFile {
	return &bufferedParquetFile{cw: cw}
}

func (f *bufferedParquetFile) Open(string) (source.ParquetFile, error)   { return f, nil }
func (f *bufferedParquetFile) Create(string) (source.ParquetFile, error) { return f, nil }

func (f *bufferedParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.offset = offset
	case io.SeekCurrent:
		f.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported")
	}
	return f.offset, nil
}

func (f *bufferedParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported")
}

func (f *bufferedParquetFile) Write(p []byte) (int, error) {
	n, err := f.cw.Write(p)
	f.offset += int64(n)
	return n, err
}

func (f *bufferedParquetFile) Close() error {
	return f.cw.Close()
}
