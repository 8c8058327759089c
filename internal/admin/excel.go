package admin

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"storefront/internal/domain"
)

const sheetName = "Products"

var excelHeaders = []string{
	"ID", "Name", "Category", "Subcategory", "Price", "Discount", "Description",
	"Images", "InStock", "IsNew", "IsFeatured", "Material", "Dimensions", "Care", "Features",
}

// ImportReport итог импорта из Excel
type ImportReport struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}

// ExportExcel выгружает текущий список панели в xlsx
func (p *ProductsPanel) ExportExcel(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range excelHeaders {
		header.AddCell().SetValue(h)
	}

	for _, it := range p.List() {
		row := sheet.AddRow()
		for _, v := range []string{
			it.ID,
			it.Name,
			string(it.Category),
			it.Subcategory,
			it.Price.String(),
			strconv.Itoa(it.Discount),
			it.Description,
			strings.Join(it.Images, "\n"),
			strconv.FormatBool(it.InStock),
			strconv.FormatBool(it.IsNew),
			strconv.FormatBool(it.IsFeatured),
			it.Material,
			it.Dimensions,
			it.Care,
			strings.Join(it.Features, "\n"),
		} {
			row.AddCell().SetValue(v)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ImportExcel строки с известным ID обновляют товар, остальные создают новый.
// Строки с ошибками пропускаются и попадают в отчёт.
func (p *ProductsPanel) ImportExcel(ctx context.Context, r io.ReaderAt, size int64) (ImportReport, error) {
	var report ImportReport
	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return report, fmt.Errorf("%w: parse xlsx: %v", domain.ErrInvalid, err)
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return report, fmt.Errorf("%w: excel file is empty or missing header row", domain.ErrInvalid)
	}

	known := make(map[string]domain.Product)
	for _, it := range p.List() {
		known[it.ID] = it
	}

	sheet := xlFile.Sheets[0]
	for i := 1; i < sheet.MaxRow; i++ {
		prod, err := parseRow(sheet.Rows[i])
		if err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if existing, ok := known[prod.ID]; ok && prod.ID != "" {
			// размеров в таблице нет, они переносятся с текущего товара
			prod.SizeVariants = existing.SizeVariants
			if _, err := p.Update(ctx, prod); err != nil {
				report.Skipped = append(report.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			report.Updated++
			continue
		}
		if _, err := p.Create(ctx, prod); err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		report.Created++
	}
	p.logger.Info("products imported", "created", report.Created, "updated", report.Updated, "skipped", len(report.Skipped))
	return report, nil
}

func parseRow(row *xlsx.Row) (domain.Product, error) {
	get := func(index int) string {
		if row != nil && index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}
	lines := func(s string) []string {
		var out []string
		for _, part := range strings.Split(s, "\n") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	flag := func(s string) bool {
		b, _ := strconv.ParseBool(s)
		return b
	}

	price, err := decimal.NewFromString(get(4))
	if err != nil {
		return domain.Product{}, fmt.Errorf("price %q: %w", get(4), err)
	}
	discount := 0
	if s := get(5); s != "" {
		if discount, err = strconv.Atoi(s); err != nil {
			return domain.Product{}, fmt.Errorf("discount %q: %w", s, err)
		}
	}
	category, err := domain.ParseCategory(get(2))
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:          get(0),
		Name:        get(1),
		Category:    category,
		Subcategory: get(3),
		Price:       price,
		Discount:    discount,
		Description: get(6),
		Images:      lines(get(7)),
		InStock:     flag(get(8)),
		IsNew:       flag(get(9)),
		IsFeatured:  flag(get(10)),
		Material:    get(11),
		Dimensions:  get(12),
		Care:        get(13),
		Features:    lines(get(14)),
	}, nil
}
