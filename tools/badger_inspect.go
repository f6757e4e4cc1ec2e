// Command badger_inspect dumps chatterbox records from a badger
// directory for operator inspection. Secondary index keys (idx:) are
// skipped; values are decoded per table prefix.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"chatterbox/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (user: | chat: | msg:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headerFor(*prefix))
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			if strings.HasPrefix(string(item.Key()), "idx:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, err := rowFor(*prefix, string(item.Key()), v)
				if err != nil {
					// Log and keep scanning instead of stopping the dump.
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}
				table.Append(row)
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
	color.Green.Printf("\n%d records under prefix %q\n", rows, *prefix)
}

func headerFor(prefix string) []string {
	switch {
	case strings.HasPrefix(prefix, "user:"):
		return []string{"Key", "Name", "Email", "Created"}
	case strings.HasPrefix(prefix, "chat:"):
		return []string{"Key", "Name", "Type", "Participants", "Created"}
	default:
		return []string{"Key", "Sender", "Text", "Sent"}
	}
}

func rowFor(prefix, key string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(prefix, "user:"):
		var u repositories.User
		if err := json.Unmarshal(value, &u); err != nil {
			return nil, err
		}
		return []string{key, u.Name, u.Email, u.CreatedAt.Format("2006-01-02 15:04:05")}, nil
	case strings.HasPrefix(prefix, "chat:"):
		var c repositories.StoredChat
		if err := json.Unmarshal(value, &c); err != nil {
			return nil, err
		}
		return []string{key, c.Name, c.Kind, fmt.Sprintf("%d", len(c.Participants)), c.CreatedAt.Format("2006-01-02 15:04:05")}, nil
	default:
		var m repositories.StoredMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, err
		}
		return []string{key, m.SenderName, truncate(m.Text, 60), m.SentAt.Format("2006-01-02 15:04:05")}, nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
