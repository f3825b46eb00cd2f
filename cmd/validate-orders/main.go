package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/order_admission/pkg/validate"
)

// CLI-приложение для проверки файлов с запросами на заказ.
// Валидные запросы печатаются в stdout в каноническом виде (дубликаты объединены).
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	flag.Parse()

	ctx := context.Background()
	requestValidator := validate.NewRequestValidator()

	format := validate.InputFormat(*formatStr)

	// stdin вариант: считаем, что jsonl
	if *inputPath == "" {
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
		summary, err := validate.ValidateFile(ctx, requestValidator, "/dev/stdin", format, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
		return
	}

	summary, err := validate.ValidateFile(ctx, requestValidator, *inputPath, format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
}
