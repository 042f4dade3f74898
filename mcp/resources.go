package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/layout"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/report"
)

// Resource URIs served by a Service.
const (
	BrandsURI        = "badgegen://brands"
	DocumentTypesURI = "badgegen://document-types"
	WarningsURI      = "badgegen://warnings"
)

func (svc *Service) registerResources(s *Server) {
	s.AddResource(Resource{
		URI:         BrandsURI,
		Name:        "Brands",
		Description: "Known brands with their logo, conference name and primary colour for the current year",
		MIMEType:    "application/json",
		Handler: func(ctx context.Context, uri string) ([]ResourceContent, error) {
			return jsonContent(uri, brandInfos(svc.now()))
		},
	})

	s.AddResource(Resource{
		URI:         DocumentTypesURI,
		Name:        "Document Types",
		Description: "Document types with their page size in points",
		MIMEType:    "application/json",
		Handler:     handleDocumentTypes,
	})

	s.AddResource(Resource{
		URI:         WarningsURI,
		Name:        "Warnings",
		Description: "Warnings of the most recent generation",
		MIMEType:    "application/json",
		Handler: func(ctx context.Context, uri string) ([]ResourceContent, error) {
			ws := []report.Warning{}
			if run := svc.lastRun(); run != nil {
				ws = append(ws, run.Warnings()...)
			}
			return jsonContent(uri, ws)
		},
	})
}

type brandJSON struct {
	Brand          model.Brand `json:"brand"`
	LogoPath       string      `json:"logoPath"`
	ConferenceName string      `json:"conferenceName"`
	PrimaryColor   string      `json:"primaryColor"`
}

func brandInfos(now time.Time) []brandJSON {
	var out []brandJSON
	for _, b := range model.Brands() {
		info, ok := model.LookupBrand(b, now)
		if !ok {
			continue
		}
		out = append(out, brandJSON{
			Brand:          info.Brand,
			LogoPath:       info.LogoPath,
			ConferenceName: info.ConferenceName,
			PrimaryColor:   info.PrimaryColor,
		})
	}
	return out
}

func handleDocumentTypes(ctx context.Context, uri string) ([]ResourceContent, error) {
	type docType struct {
		Type   model.DocumentType `json:"type"`
		Width  float64            `json:"width"`
		Height float64            `json:"height"`
	}
	var out []docType
	for _, t := range model.DocumentTypes() {
		spec, err := layout.SpecFor(t)
		if err != nil {
			return nil, fmt.Errorf("layout for %s: %w", t, err)
		}
		out = append(out, docType{Type: t, Width: spec.Page.W, Height: spec.Page.H})
	}
	return jsonContent(uri, out)
}

func jsonContent(uri string, v interface{}) ([]ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(data)}}, nil
}
