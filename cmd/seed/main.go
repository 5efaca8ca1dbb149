package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vibeprint/storefront/config"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/internal/app/service"
	"github.com/vibeprint/storefront/internal/db"
	"github.com/vibeprint/storefront/internal/storage"
)

func main() {
	outPath := flag.String("out", "", "write the catalog JSON to this file instead of the database")
	upload := flag.Bool("s3", false, "upload the catalog JSON to the configured S3 catalog key")
	yes := flag.Bool("y", false, "skip the confirmation prompt")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed [-out catalog.json] [-s3] [-y] <xlsx_file_path>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	doc, stats, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode catalog:", err)
	}
	// Same checks the server applies on sync.
	if _, err := service.ParseCatalog(data); err != nil {
		log.Fatal("Catalog is not valid:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", stats.rows)
	fmt.Printf("  Skipped rows: %d\n", stats.skipped)
	fmt.Printf("  Categories: %d\n", len(doc.Categories))
	fmt.Printf("  Products: %d\n", len(doc.Products))

	if !*yes && !confirm("Do you want to proceed with the import? (yes/no): ") {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()

	switch {
	case *outPath != "":
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			log.Fatal("Failed to write catalog file:", err)
		}
		fmt.Printf("Catalog written to %s\n", *outPath)

	case *upload:
		objects := storage.NewS3Storage(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
		if err := objects.PutObject(ctx, cfg.Catalog.S3Key, data, "application/json"); err != nil {
			log.Fatal("Failed to upload catalog:", err)
		}
		fmt.Printf("Catalog uploaded to %s\n", objects.ObjectURL(cfg.Catalog.S3Key))

	default:
		if err := db.Initialize(&cfg.Database); err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}

		source := bytesSource{name: "xlsx:" + filePath, data: data}
		syncer := service.NewCatalogSyncService(source,
			repository.NewProductRepository(db.GetDB()),
			repository.NewCategoryRepository(db.GetDB()),
		)
		result, err := syncer.Sync(ctx)
		if err != nil {
			log.Fatal("Failed to import catalog:", err)
		}
		fmt.Println("Import completed successfully!")
		fmt.Printf("Total products imported: %d\n", result.Products)
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "yes" || answer == "y"
}

// bytesSource serves an already-built document to the catalog sync.
type bytesSource struct {
	name string
	data []byte
}

func (s bytesSource) Name() string { return s.name }

func (s bytesSource) Fetch(context.Context) ([]byte, error) { return s.data, nil }
