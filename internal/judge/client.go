package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/models"
)

// Judge0 status ids the verdict mapping cares about.
const (
	statusTimeLimitExceeded = 5
	statusCompilationError  = 6
	statusRuntimeErrorNZEC  = 11
	statusRuntimeErrorOther = 12
	statusInternalError     = 13
)

var languageIDs = map[string]int{
	"c":          50,
	"csharp":     51,
	"cpp":        54,
	"go":         60,
	"java":       62,
	"javascript": 63,
	"python":     71,
	"ruby":       72,
	"rust":       73,
	"typescript": 74,
}

// TestResult is the outcome of one test case run.
type TestResult struct {
	TestCase int     `json:"test_case"`
	Passed   bool    `json:"passed"`
	Output   string  `json:"output"`
	Expected string  `json:"expected"`
	Time     float64 `json:"time,omitempty"`
}

// Verdict is the judge's structured answer for one submission: overall
// pass/fail, per-test outputs, accumulated error text and total execution
// time in seconds.
type Verdict struct {
	Passed        bool         `json:"passed"`
	TestResults   []TestResult `json:"test_results"`
	Errors        string       `json:"errors,omitempty"`
	ExecutionTime float64      `json:"execution_time"`
}

// Client talks to a Judge0-compatible execution service. The service owns
// sandboxing and per-test time limits; the client only enforces a request
// timeout so one stuck call cannot wedge a submission.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	host       string
}

func NewClient(host, apiKey string, timeout time.Duration) *Client {
	baseURL := host
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		host:       host,
	}
}

type judge0Request struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

type judge0Response struct {
	Status struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Time          string `json:"time"`
}

// Judge runs the code against every test case, one synchronous execution
// per test. Compile errors, runtime errors and time limits stop the run;
// wrong answers keep going so the verdict carries every diff.
func (c *Client) Judge(ctx context.Context, code, language string, tests []models.TestCase) (*Verdict, error) {
	languageID, ok := languageIDs[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q: %w", language, common.ErrBadRequest)
	}

	verdict := &Verdict{Passed: true}
	var errorLines []string

	for i, test := range tests {
		result, err := c.execute(ctx, judge0Request{
			LanguageID: languageID,
			SourceCode: code,
			Stdin:      test.Stdin,
		})
		if err != nil {
			return nil, fmt.Errorf("judge request for test %d failed: %w", i+1, err)
		}

		switch result.Status.ID {
		case statusCompilationError:
			verdict.Passed = false
			detail := result.CompileOutput
			if detail == "" {
				detail = result.Stderr
			}
			errorLines = append(errorLines, fmt.Sprintf("Test %d: Compilation Error - %s", i+1, detail))
			verdict.Errors = strings.Join(errorLines, "\n")
			return verdict, nil
		case statusRuntimeErrorNZEC, statusRuntimeErrorOther, statusInternalError:
			verdict.Passed = false
			detail := result.Stderr
			if detail == "" {
				detail = result.Message
			}
			errorLines = append(errorLines, fmt.Sprintf("Test %d: Runtime Error - %s", i+1, detail))
			verdict.Errors = strings.Join(errorLines, "\n")
			return verdict, nil
		case statusTimeLimitExceeded:
			verdict.Passed = false
			errorLines = append(errorLines, fmt.Sprintf("Test %d: Time Limit Exceeded", i+1))
			verdict.Errors = strings.Join(errorLines, "\n")
			return verdict, nil
		}

		actual := strings.TrimSpace(result.Stdout)
		expected := strings.TrimSpace(test.ExpectedOutput)
		passed := actual == expected

		if !passed {
			verdict.Passed = false
			errorLines = append(errorLines, fmt.Sprintf("Test %d: Wrong Answer - Expected %q, got %q", i+1, expected, actual))
		}

		execTime := 0.0
		if result.Time != "" {
			if t, err := strconv.ParseFloat(result.Time, 64); err == nil {
				execTime = t
				verdict.ExecutionTime += t
			}
		}

		verdict.TestResults = append(verdict.TestResults, TestResult{
			TestCase: i + 1,
			Passed:   passed,
			Output:   actual,
			Expected: expected,
			Time:     execTime,
		})
	}

	verdict.Errors = strings.Join(errorLines, "\n")
	return verdict, nil
}

func (c *Client) execute(ctx context.Context, req judge0Request) (*judge0Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal judge request: %w", err)
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build judge request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-rapidapi-key", c.apiKey)
		httpReq.Header.Set("x-rapidapi-host", c.host)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrJudgeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: judge returned status %d: %s", common.ErrJudgeUnavailable, resp.StatusCode, payload)
	}

	var result judge0Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode judge response: %v", common.ErrJudgeUnavailable, err)
	}

	return &result, nil
}
