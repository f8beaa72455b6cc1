package client

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

type SheetsClient struct {
	srv           *sheetsv4.Service
	spreadsheetId string
}

func NewSheetsClient(ctx context.Context, credentialsFile string, spreadsheetId string) (*SheetsClient, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheetsv4.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	srv, err := sheetsv4.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	return &SheetsClient{srv: srv, spreadsheetId: spreadsheetId}, nil
}

func (c *SheetsClient) ensureSheet(ctx context.Context, title string) error {
	spreadsheet, err := c.srv.Spreadsheets.Get(c.spreadsheetId).Context(ctx).Do()
	if err != nil {
		return err
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}
	_, err = c.srv.Spreadsheets.BatchUpdate(c.spreadsheetId, &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{
			{AddSheet: &sheetsv4.AddSheetRequest{Properties: &sheetsv4.SheetProperties{Title: title}}},
		},
	}).Context(ctx).Do()
	return err
}

// ReplaceSheet overwrites the whole sheet with rows, creating the sheet when missing.
func (c *SheetsClient) ReplaceSheet(ctx context.Context, title string, rows [][]interface{}) error {
	if err := c.ensureSheet(ctx, title); err != nil {
		return err
	}
	if _, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetId, title, &sheetsv4.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return err
	}
	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetId, title+"!A1", &sheetsv4.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}
