package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type transcriptResponse struct {
	Messages []turn `json:"messages"`
	Count    int    `json:"count"`
}

func runChat(apiURL, userID, message, itineraryPath string, out io.Writer) error {
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}

	itinerary := defaultItinerary
	if itineraryPath != "" {
		data, err := os.ReadFile(itineraryPath)
		if err != nil {
			return err
		}
		itinerary = data
	}

	payload := map[string]interface{}{
		"message":   message,
		"itinerary": json.RawMessage(itinerary),
	}
	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiURL+"/api/conversations/"+userID+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return err
	}
	printTranscript(out, tr)
	return nil
}

func runTranscript(apiURL, userID string, out io.Writer) error {
	resp, err := http.Get(apiURL + "/api/conversations/" + userID)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return err
	}
	printTranscript(out, tr)
	return nil
}

func printTranscript(out io.Writer, tr transcriptResponse) {
	for _, t := range tr.Messages {
		fmt.Fprintf(out, "[%s] %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(out, "(%d messages)\n", tr.Count)
}
