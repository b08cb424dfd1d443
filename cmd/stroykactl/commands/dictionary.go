package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stroyka/internal/apiclient"
	"stroyka/internal/order/model"
)

const typeAheadDelay = 300 * time.Millisecond

func workTypeName(w model.WorkType) string { return w.Name.String() }
func addressName(a model.Address) string   { return a.Name.String() }

func workTypesCmd() *cobra.Command {
	var (
		search      string
		filter      string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "work-types",
		Short: "List work types from the dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return typeAhead(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			workTypes, err := client.GetWorkTypes(ctx, search)
			if err != nil {
				return err
			}
			return printJSON(cmd, apiclient.FilterBySearch(workTypes, filter, workTypeName))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "server side search text")
	cmd.Flags().StringVar(&filter, "filter", "", "filter the result locally by name")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "search as you type, one query per line")
	return cmd
}

type query struct {
	seq  int
	text string
}

type answer struct {
	seq  int
	text string
}

// typeAhead queries work types for each input line, skipping lines superseded within typeAheadDelay.
// After stdin closes it waits for the answer to the last line sent.
func typeAhead(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan answer)
	lookup := apiclient.Debounce(typeAheadDelay, func(q query) {
		reqCtx, cancel := context.WithTimeout(ctx, cfg.APIRequestTimeout)
		defer cancel()

		var text string
		if workTypes, err := client.GetWorkTypes(reqCtx, q.text); err != nil {
			text = fmt.Sprintf("error: %v", err)
		} else {
			names := make([]string, 0, len(workTypes))
			for _, w := range workTypes {
				names = append(names, fmt.Sprintf("%d\t%s", w.ID, w.Name))
			}
			text = fmt.Sprintf("%q: %d found\n%s", q.text, len(names), strings.Join(names, "\n"))
		}
		select {
		case results <- answer{seq: q.seq, text: text}:
		case <-ctx.Done():
		}
	})
	defer lookup.Stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	sent, answered := 0, 0
	for lines != nil || answered < sent {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			sent++
			lookup.Call(query{seq: sent, text: line})
		case r := <-results:
			answered = r.seq
			fmt.Fprintln(out, r.text)
		case <-idle(lines, typeAheadDelay+cfg.APIRequestTimeout):
			return nil
		}
	}
	return nil
}

// idle fires after d once input is exhausted, so a lost lookup cannot hang the loop.
func idle(lines <-chan string, d time.Duration) <-chan time.Time {
	if lines != nil {
		return nil
	}
	return time.After(d)
}

func addressesCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			addresses, err := client.GetAddresses(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, apiclient.FilterBySearch(addresses, filter, addressName))
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter regions by name")
	return cmd
}
