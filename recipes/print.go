package recipes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipepress/logging"
	"recipepress/render"
	"recipepress/schema"
	"recipepress/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// PrintCard serves an A4 recipe card with a QR code linking back to the
// recipe. Text comes from the assembled schema document.
func (h *Handler) PrintCard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, ok := h.load(ctx, w, ps)
	if !ok {
		return
	}
	doc, err := h.assembler(h.options(ctx)).GetSchema(ctx, rec.Post.ID)
	if err != nil {
		logging.L().Error("assemble schema for card", zap.Int64("recipe", rec.Post.ID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recipe card")
		return
	}
	if doc == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe has no metadata")
		return
	}

	pdf, err := Card(rec, doc)
	if err != nil {
		logging.L().Error("generate card", zap.Int64("recipe", rec.Post.ID), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Disposition", "inline; filename=recipe-"+strconv.FormatInt(rec.Post.ID, 10)+".pdf")
	utils.RespondWithBytes(w, http.StatusOK, "application/pdf", pdf)
}

// Card lays out the recipe card PDF.
func Card(rec render.Recipe, doc *schema.Recipe) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	textWidth := 0.0
	if link := rec.Post.Permalink; link != "" {
		qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 160, 12, 35, 35, false, imageOpts, 0, link)
		textWidth = 140
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(textWidth, 9, tr(doc.Name), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	var facts []string
	m := rec.Meta
	for _, f := range []struct {
		label   string
		minutes int
	}{{"Preparation", m.PrepTime}, {"Cooking", m.CookTime}, {"Waiting", m.PassiveTime}, {"Ready in", m.TotalTime()}} {
		if f.minutes > 0 {
			facts = append(facts, f.label+": "+render.FormatMinutes(f.minutes))
		}
	}
	if doc.RecipeYield != "" {
		facts = append(facts, "Servings: "+doc.RecipeYield)
	}
	if len(facts) > 0 {
		pdf.MultiCell(textWidth, 6, tr(strings.Join(facts, "   ")), "", "L", false)
	}
	if doc.Description != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(textWidth, 5, tr(doc.Description), "", "L", false)
	}
	pdf.SetY(max(pdf.GetY(), 50))

	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
	}

	section("Ingredients")
	for _, ing := range doc.RecipeIngredient {
		pdf.MultiCell(0, 6, tr("- "+ing), "", "L", false)
	}

	section("Instructions")
	n := 0
	step := func(text string) {
		n++
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", n, text)), "", "L", false)
		pdf.Ln(1)
	}
	for _, item := range doc.RecipeInstructions {
		switch v := item.(type) {
		case schema.HowToStep:
			step(v.Text)
		case schema.HowToSection:
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, tr(v.Name), "", "L", false)
			pdf.SetFont("Arial", "", 11)
			for _, s := range v.ItemListElement {
				step(s.Text)
			}
		}
	}

	if len(doc.Tool) > 0 {
		section("Equipment")
		pdf.MultiCell(0, 6, tr(strings.Join(doc.Tool, ", ")), "", "L", false)
	}

	if doc.Author != nil || rec.Post.Permalink != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 8)
		var footer []string
		if doc.Author != nil {
			footer = append(footer, "By "+doc.Author.Name)
		}
		if rec.Post.Permalink != "" {
			footer = append(footer, rec.Post.Permalink)
		}
		pdf.MultiCell(0, 4, tr(strings.Join(footer, " - ")), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
