package commands

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stroyka/internal/apiclient"
)

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Read and create orders",
	}
	cmd.AddCommand(orderGetCmd(), orderEquipmentCmd(), orderListCmd(), orderCreateCmd())
	return cmd
}

func orderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get REG_NUMBER",
		Short: "Show an order by its registration number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			order, err := upstream.GetOrderByRegNumber(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, order)
		},
	}
}

func orderEquipmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equipment REG_NUMBER",
		Short: "Show a special machinery order by its registration number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			order, err := upstream.GetEquipmentOrderByRegNumber(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, order)
		},
	}
}

func orderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			orders, err := upstream.GetOrders(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, orders)
		},
	}
}

func orderCreateCmd() *cobra.Command {
	var (
		draftPath string
		files     []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order from a YAML draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := loadDraft(draftPath)
			if err != nil {
				return err
			}

			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				contentType, err := detectContentType(f)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				draft.Files = append(draft.Files, apiclient.UploadFile{
					Name:        filepath.Base(path),
					ContentType: contentType,
					Body:        f,
				})
			}

			payload, err := client.CreateOrder(cmd.Context(), *draft)
			if err != nil {
				return err
			}
			return printPayload(cmd, payload)
		},
	}
	cmd.Flags().StringVar(&draftPath, "draft", "", "path to the order draft (YAML)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attachment to upload, repeatable")
	cmd.MarkFlagRequired("draft")
	return cmd
}

func loadDraft(path string) (*apiclient.OrderDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var draft apiclient.OrderDraft
	if err := yaml.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("parse draft %s: %w", path, err)
	}
	if draft.OrderName == "" {
		return nil, fmt.Errorf("draft %s: orderName is required", path)
	}
	return &draft, nil
}

// detectContentType prefers the file extension and falls back to sniffing the first 512 bytes.
func detectContentType(f *os.File) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
