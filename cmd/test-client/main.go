package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"voxtral-server/internal/app/audio"
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Transcription server base URL")
		language   = flag.String("lang", "en", "Language code")
		timeout    = flag.Int("timeout", 60, "Request timeout in seconds")
		healthOnly = flag.Bool("health", false, "Only perform health check")
	)
	flag.Parse()

	client := &http.Client{Timeout: time.Duration(*timeout) * time.Second}

	fmt.Printf("Testing server at: %s\n\n", *baseURL)

	if !testHealth(client, *baseURL) {
		fmt.Fprintln(os.Stderr, "Health check failed. Please ensure the server is running.")
		os.Exit(1)
	}

	if *healthOnly {
		fmt.Println("Health check completed successfully.")
		return
	}

	// 1 second of 44.1kHz mono 16-bit silence: the minimal well-formed
	// upload the server must accept.
	wav := audio.SilentWAV(time.Second, 44100, 1, 16)

	passed := 0
	total := 2

	if testTranscribe(client, *baseURL, wav, *language) {
		passed++
	}
	if testTranscribeJSON(client, *baseURL, wav, *language) {
		passed++
	}

	fmt.Printf("\nTest results: %d/%d passed\n", passed, total)
	if passed != total {
		os.Exit(1)
	}
}

func testHealth(client *http.Client, baseURL string) bool {
	fmt.Println("Testing /health ...")

	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  FAIL: status %d\n", resp.StatusCode)
		return false
	}

	var health struct {
		Status       string `json:"status"`
		ModelLoaded  bool   `json:"model_loaded"`
		Device       string `json:"device"`
		GPUAvailable bool   `json:"gpu_available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		fmt.Printf("  FAIL: decode: %v\n", err)
		return false
	}

	fmt.Printf("  status=%s model_loaded=%v device=%s gpu_available=%v\n",
		health.Status, health.ModelLoaded, health.Device, health.GPUAvailable)
	return true
}

func testTranscribe(client *http.Client, baseURL string, wav []byte, language string) bool {
	fmt.Println("\nTesting /transcribe ...")

	status, body, err := postWAV(client, baseURL+"/transcribe", wav, language)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	if status != http.StatusOK {
		fmt.Printf("  FAIL: status %d: %s\n", status, body)
		return false
	}

	var result struct {
		Text           string  `json:"text"`
		Language       string  `json:"language"`
		ProcessingTime float64 `json:"processing_time"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("  FAIL: decode: %v\n", err)
		return false
	}

	if result.Language != language {
		fmt.Printf("  FAIL: language %q, want %q\n", result.Language, language)
		return false
	}
	if result.ProcessingTime < 0 {
		fmt.Printf("  FAIL: negative processing_time %f\n", result.ProcessingTime)
		return false
	}

	fmt.Printf("  processing_time=%.2fs language=%s text=%q\n",
		result.ProcessingTime, result.Language, result.Text)
	return true
}

func testTranscribeJSON(client *http.Client, baseURL string, wav []byte, language string) bool {
	fmt.Println("\nTesting /transcribe-json ...")

	status, body, err := postWAV(client, baseURL+"/transcribe-json", wav, language)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("  FAIL: decode: %v\n", err)
		return false
	}

	if status != http.StatusOK {
		fmt.Printf("  FAIL: status %d: error=%q\n", status, result["error"])
		return false
	}

	text, ok := result["text"]
	if !ok {
		fmt.Printf("  FAIL: response missing 'text' field: %s\n", body)
		return false
	}

	fmt.Printf("  text=%q\n", text)
	return true
}

func postWAV(client *http.Client, url string, wav []byte, language string) (int, []byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "test.wav")
	if err != nil {
		return 0, nil, err
	}
	if _, err := part.Write(wav); err != nil {
		return 0, nil, err
	}
	if err := writer.WriteField("language", language); err != nil {
		return 0, nil, err
	}
	if err := writer.Close(); err != nil {
		return 0, nil, err
	}

	resp, err := client.Post(url, writer.FormDataContentType(), body)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, data, nil
}
