package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/internal/app/service"
	"github.com/sportaccessories/storefront/internal/db"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

// column order of the catalog sheet
const (
	colName = iota
	colDescription
	colPrice
	colCategory
	colBrand
	colImageURL
)

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "import products from an XLSX catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the .xlsx file", Required: true},
			&cli.StringFlag{Name: "sheet", Usage: "sheet name (defaults to the first sheet)"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation prompt"},
		},
		Action: func(c *cli.Context) error {
			inputs, skipped, err := readProductsFromXLSX(c.String("file"), c.String("sheet"))
			if err != nil {
				return err
			}

			out := c.App.Writer
			for _, reason := range skipped {
				fmt.Fprintf(out, "skipped %s\n", reason)
			}
			fmt.Fprintf(out, "Products to import: %d\n", len(inputs))
			if len(inputs) == 0 {
				return nil
			}

			if !c.Bool("yes") && !confirm(c.App.Reader, out) {
				fmt.Fprintln(out, "Import cancelled.")
				return nil
			}

			productService := service.NewProductService(repository.NewProductRepository(db.GetDB()), nil, 0)
			n, err := productService.ImportProducts(inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d products\n", n)
			return nil
		},
	}
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Do you want to proceed with the import? (yes/no): ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

func readProductsFromXLSX(path, sheet string) ([]service.ProductInput, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, nil, fmt.Errorf("no sheets found in %s", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	inputs, skipped := parseProductRows(rows)
	return inputs, skipped, nil
}

// parseProductRows skips the header row and any row without a name or a positive price.
func parseProductRows(rows [][]string) ([]service.ProductInput, []string) {
	var inputs []service.ProductInput
	var skipped []string

	for i, row := range rows {
		if i == 0 {
			continue
		}
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		name := cell(colName)
		if name == "" {
			if len(strings.Join(row, "")) > 0 {
				skipped = append(skipped, fmt.Sprintf("row %d: missing name", i+1))
			}
			continue
		}

		price, err := decimal.NewFromString(strings.TrimPrefix(cell(colPrice), "$"))
		if err != nil || !price.IsPositive() {
			skipped = append(skipped, fmt.Sprintf("row %d (%s): invalid price %q", i+1, name, cell(colPrice)))
			continue
		}

		inputs = append(inputs, service.ProductInput{
			Name:        name,
			Description: cell(colDescription),
			Price:       price,
			Category:    cell(colCategory),
			Brand:       cell(colBrand),
			ImageURL:    cell(colImageURL),
		})
	}
	return inputs, skipped
}

