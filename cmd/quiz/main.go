package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vocabuilder/api/internal/client"
)

// Interactive terminal quiz against a running API. Credentials are kept in
// ~/.vocabuilder/credentials.json between runs.
func main() {
	apiURL := flag.String("api", envOr("VOCABUILDER_API", "http://localhost:3001"), "API base URL")
	from := flag.String("from", "en", "Source language code")
	to := flag.String("to", "de", "Target language code")
	count := flag.Int("n", 10, "Number of questions")
	email := flag.String("email", "", "Log in with this email (prompts for password)")
	history := flag.Bool("history", false, "Show recent quiz results instead of playing")
	logout := flag.Bool("logout", false, "Log out and forget stored credentials")
	flag.Parse()

	ctx := context.Background()
	in := bufio.NewReader(os.Stdin)
	session := client.NewSession(client.NewClient(*apiURL))
	credsPath := credentialsPath()

	if *logout {
		if creds, err := loadCredentials(credsPath); err == nil {
			_ = session.Init(ctx, creds)
		}
		if err := session.Logout(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "logout: %v\n", err)
		}
		os.Remove(credsPath)
		fmt.Println("Logged out.")
		return
	}

	if err := authenticate(ctx, session, in, credsPath, *email); err != nil {
		fatal(err)
	}
	fmt.Printf("Hello, %s!\n", session.CurrentUser().Username)

	var err error
	if *history {
		err = showHistory(ctx, session)
	} else {
		err = play(ctx, session, in, os.Stdout, *from, *to, *count)
	}
	if saveErr := saveCredentials(credsPath, session.Credentials()); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: could not store credentials: %v\n", saveErr)
	}
	if err != nil {
		fatal(err)
	}
}

func authenticate(ctx context.Context, session *client.Session, in *bufio.Reader, credsPath, email string) error {
	if email == "" {
		creds, err := loadCredentials(credsPath)
		if err == nil && session.Init(ctx, creds) == nil {
			return nil
		}
		fmt.Print("Email: ")
		email = readLine(in)
	}
	fmt.Print("Password: ")
	password := readLine(in)

	if _, err := session.Login(ctx, email, password); err != nil {
		return err
	}
	return saveCredentials(credsPath, session.Credentials())
}

func play(ctx context.Context, session *client.Session, in *bufio.Reader, out io.Writer, from, to string, count int) error {
	questions, err := session.Questions(ctx, from, to, count)
	if err != nil {
		return err
	}

	start := time.Now()
	answers := make([]client.Answer, 0, len(questions))
	for _, q := range questions {
		fmt.Fprintf(out, "%d/%d  %s -> ", q.QuestionNumber, len(questions), q.Word)
		answers = append(answers, client.Answer{VocabID: q.ID, UserAnswer: readLine(in)})
	}

	result, err := session.Submit(ctx, from, to, answers, start, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, q := range result.Questions {
		mark := "x"
		if q.IsCorrect {
			mark = "ok"
		}
		fmt.Fprintf(out, "[%s] %s = %s (you: %s)\n", mark, q.QuestionWord, q.CorrectAnswer, q.UserAnswer)
	}
	fmt.Fprintf(out, "\nScore: %d%% (%d/%d) in %ds\n", result.Score, result.CorrectAnswers, result.TotalQuestions, result.Duration)
	return nil
}

func showHistory(ctx context.Context, session *client.Session) error {
	page, err := session.History(ctx, 1, 10)
	if err != nil {
		return err
	}
	if len(page.QuizHistory) == 0 {
		fmt.Println("No quizzes yet.")
		return nil
	}
	for _, item := range page.QuizHistory {
		fmt.Printf("%s  %s->%s  %3d%%  %d/%d  %ds\n",
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
			item.FromLanguage, item.ToLanguage, item.Score,
			item.CorrectAnswers, item.TotalQuestions, item.Duration)
	}
	fmt.Printf("(%d quizzes total)\n", page.TotalQuizzes)
	return nil
}

func credentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vocabuilder-credentials.json"
	}
	return filepath.Join(home, ".vocabuilder", "credentials.json")
}

func loadCredentials(path string) (client.Credentials, error) {
	var creds client.Credentials
	data, err := os.ReadFile(path)
	if err != nil {
		return creds, err
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, err
	}
	if creds.Token == "" {
		return creds, errors.New("empty credentials")
	}
	return creds, nil
}

func saveCredentials(path string, creds client.Credentials) error {
	if creds.Token == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "error: %s\n", apiErr.Message)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
