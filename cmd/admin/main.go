// Command admin manages groups and the page cache from the shell.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/logger"
	"microblog/internal/repository"
	"microblog/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Администрирование микроблога",
		SilenceUsage: true,
	}

	root.AddCommand(newGroupsCmd(), newCacheCmd())
	return root
}

func openGroups(cmd *cobra.Command) (service.GroupService, func(), error) {
	cfg := config.LoadConfig()
	log := logger.New(cfg.Log)

	db, err := database.ConnectDB(cmd.Context(), cfg, log)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewRepository(db.DB)
	return service.NewGroupService(repo.Group), func() { db.CloseDB() }, nil
}

func newGroupsCmd() *cobra.Command {
	groups := &cobra.Command{
		Use:   "groups",
		Short: "Сообщества",
	}

	var title, slug, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Создать сообщество",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := openGroups(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			group, err := svc.Create(cmd.Context(), title, slug, description)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Создано сообщество %q (id %d, /group/%s/)\n", group.Title, group.ID, group.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "название сообщества")
	create.Flags().StringVar(&slug, "slug", "", "адрес сообщества")
	create.Flags().StringVar(&description, "description", "", "описание")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("slug")

	list := &cobra.Command{
		Use:   "list",
		Short: "Список сообществ",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := openGroups(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			all, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
			for _, g := range all {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return tw.Flush()
		},
	}

	groups.AddCommand(create, list)
	return groups
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Кэш страниц",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Удалить все сохраненные страницы",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log := logger.New(cfg.Log)

			client := cache.NewClient(cfg.Redis.URL, log)
			if client == nil {
				return fmt.Errorf("Redis недоступен по адресу %s", cfg.Redis.URL)
			}
			defer client.Close()

			removed, err := cache.NewPageCache(client, cfg.Redis.PageCacheTTL, log).Clear(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Удалено страниц: %d\n", removed)
			return nil
		},
	}

	cacheCmd.AddCommand(clearCmd)
	return cacheCmd
}
