// Command vidtube is a terminal client for the vidtube backend: browse and
// watch videos, react, subscribe, and comment.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vidtube"
	"vidtube/api"
	"vidtube/config"
	"vidtube/internal/logging"
	"vidtube/store"
)

var app *vidtube.App

func main() {
	if err := rootCmd().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vidtube",
		Short:         "Terminal client for the vidtube video platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Init(logging.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Writer: os.Stderr,
			})
			app, err = vidtube.New(cfg, logger)
			if err != nil {
				return err
			}
			app.Session.SetNoticeFunc(func(msg string) {
				color.Yellow(msg)
			})
			return app.Restore(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
			}
		},
	}

	root.AddCommand(
		loginCmd(), logoutCmd(), signupCmd(), whoamiCmd(),
		videosCmd(), watchCmd(), likeCmd(), dislikeCmd(),
		subscribeCmd(), subscriptionsCmd(),
		commentCmd(), commentsCmd(),
		uploadCmd(), editVideoCmd(), rmVideoCmd(),
		profileCmd(), setProfileCmd(), usersCmd(),
		passwdCmd(), deleteAccountCmd(),
	)
	return root
}

// promptSecret reads a line from stdin after printing a prompt.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func requireVideoID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid video id %q", arg)
	}
	return id, nil
}

func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = promptSecret("Password: "); err != nil {
					return err
				}
			}
			sess, err := app.Session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			color.Green("Logged in as %s", sess.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(); err != nil {
				return err
			}
			color.Green("Logged out")
			return nil
		},
	}
}

func signupCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = promptSecret("Password: "); err != nil {
					return err
				}
			}
			if err := app.API.Signup(cmd.Context(), args[0], password); err != nil {
				return err
			}
			sess, err := app.Session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			color.Green("Welcome, %s", sess.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := app.Session.Current()
			if !ok {
				fmt.Println("not logged in")
				return nil
			}
			fmt.Printf("%s (id %d)\n", sess.User.Username, sess.User.ID)
			return nil
		},
	}
}

func videosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "videos [query]",
		Short: "List videos, optionally filtered by a search query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			videos, err := app.Catalog.LoadList(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				fmt.Println("no videos")
				return nil
			}
			bold := color.New(color.Bold)
			for _, v := range videos {
				bold.Printf("[%d] %s\n", v.ID, v.Title)
				fmt.Printf("     %s · %d views · %s · %s\n",
					v.Channel, v.Views, v.Duration, v.UploadTime)
			}
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <video-id>",
		Short: "Open a video: full details plus comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireVideoID(args[0])
			if err != nil {
				return err
			}
			v, err := app.Catalog.LoadDetail(cmd.Context(), id)
			if err != nil {
				return err
			}

			color.New(color.Bold).Println(v.Title)
			fmt.Printf("%s · %d views · uploaded %s\n", v.Channel, v.Views, v.UploadTime)
			stats := app.Interactions.Stats(v.ID)
			fmt.Printf("%d likes · %d dislikes", stats.Likes, stats.Dislikes)
			if v.SubscriberCount > 0 {
				fmt.Printf(" · %d subscribers", v.SubscriberCount)
			}
			fmt.Println()
			if v.Description != "" {
				fmt.Println(v.Description)
			}
			if v.VideoURL != "" {
				fmt.Printf("stream: %s\n", v.VideoURL)
			}

			comments, err := app.Comments.Load(cmd.Context(), id)
			if err != nil {
				color.Yellow("comments unavailable: %v", err)
				return nil
			}
			fmt.Printf("\n%d comments\n", len(comments))
			for _, c := range comments {
				fmt.Printf("  [%d] %s: %s\n", c.ID, c.Username, c.Content)
			}
			return nil
		},
	}
}

func reactRunE(like bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := requireVideoID(args[0])
		if err != nil {
			return err
		}
		if like {
			err = app.Interactions.ToggleLike(cmd.Context(), id)
		} else {
			err = app.Interactions.ToggleDislike(cmd.Context(), id)
		}
		if err != nil {
			return err
		}
		stats := app.Interactions.Stats(id)
		fmt.Printf("%d likes · %d dislikes", stats.Likes, stats.Dislikes)
		switch app.Interactions.State(id) {
		case "like":
			fmt.Print(" · you like this")
		case "dislike":
			fmt.Print(" · you dislike this")
		}
		fmt.Println()
		return nil
	}
}

func likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <video-id>",
		Short: "Toggle your like on a video",
		Args:  cobra.ExactArgs(1),
		RunE:  reactRunE(true),
	}
}

func dislikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dislike <video-id>",
		Short: "Toggle your dislike on a video",
		Args:  cobra.ExactArgs(1),
		RunE:  reactRunE(false),
	}
}

func subscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <channel>",
		Short: "Toggle your subscription to a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subscribed, err := app.Subscriptions.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if subscribed {
				color.Green("Subscribed to %s", args[0])
			} else {
				fmt.Printf("Unsubscribed from %s\n", args[0])
			}
			return nil
		},
	}
}

func subscriptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions",
		Short: "List the channels you follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Subscriptions.Refresh(cmd.Context()); err != nil {
				return err
			}
			channels := app.Subscriptions.All()
			if len(channels) == 0 {
				fmt.Println("no subscriptions")
				return nil
			}
			for _, ch := range channels {
				fmt.Println(ch)
			}
			return nil
		},
	}
}

func commentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <video-id>",
		Short: "List a video's comments, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireVideoID(args[0])
			if err != nil {
				return err
			}
			comments, err := app.Comments.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Println("no comments")
				return nil
			}
			for _, c := range comments {
				fmt.Printf("[%d] %s (%s)\n    %s\n", c.ID, c.Username, c.CreatedAt, c.Content)
			}
			return nil
		},
	}
}

func commentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit, or remove comments",
	}

	add := &cobra.Command{
		Use:   "add <video-id> <content>",
		Short: "Post a comment on a video",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireVideoID(args[0])
			if err != nil {
				return err
			}
			c, err := app.Comments.Create(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			color.Green("Posted comment %d", c.ID)
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <video-id> <comment-id> <content>",
		Short: "Edit one of your comments",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := requireVideoID(args[0])
			if err != nil {
				return err
			}
			commentID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid comment id %q", args[1])
			}
			app.Comments.StartEdit(commentID)
			if err := app.Comments.Update(cmd.Context(), videoID, commentID,
				strings.Join(args[2:], " ")); err != nil {
				app.Comments.CancelEdit()
				return err
			}
			color.Green("Comment updated")
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <video-id> <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := requireVideoID(args[0])
			if err != nil {
				return err
			}
			commentID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid comment id %q", args[1])
			}
			if err := app.Comments.Delete(cmd.Context(), videoID, commentID); err != nil {
				if errors.Is(err, vidtube.ErrNotYourComment) {
					return errors.New("you can only delete your own comments")
				}
				return err
			}
			color.Green("Comment deleted")
			return nil
		},
	}

	cmd.AddCommand(add, edit, rm)
	return cmd
}

func uploadCmd() *cobra.Command {
	var title, description, duration, videoPath, thumbPath string
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a new video to your channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := app.Session.Current(); !ok {
				return vidtube.ErrAuthRequired
			}
			video, err := os.Open(videoPath)
			if err != nil {
				return err
			}
			defer video.Close()

			up := &api.VideoUpload{
				Title:       title,
				Description: description,
				Duration:    duration,
				Video:       api.FilePart{Filename: videoPath, Reader: video},
			}
			if thumbPath != "" {
				thumb, err := os.Open(thumbPath)
				if err != nil {
					return err
				}
				defer thumb.Close()
				up.Thumbnail = &api.FilePart{Filename: thumbPath, Reader: thumb}
			}

			id, err := app.API.UploadVideo(cmd.Context(), up)
			if err != nil {
				return err
			}
			color.Green("Uploaded video %d", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "video title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "video description")
	cmd.Flags().StringVar(&duration, "duration", "", "duration, e.g. 12:34")
	cmd.Flags().StringVarP(&videoPath, "file", "f", "", "video file to upload")
	cmd.Flags().StringVar(&thumbPath, "thumbnail", "", "thumbnail image file")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("file")
	return cmd
}

func editVideoCmd() *cobra.Command {
	var title, description, duration, thumbPath string
	cmd := &cobra.Command{
		Use:   "edit <video-id>",
		Short: "Edit one of your videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireVideoID(args[0])
			if err != nil {
				return err
			}

			edit := &api.VideoEdit{}
			if cmd.Flags().Changed("title") {
				edit.Title = &title
			}
			if cmd.Flags().Changed("description") {
				edit.Description = &description
			}
			if cmd.Flags().Changed("duration") {
				edit.Duration = &duration
			}
			if thumbPath != "" {
				thumb, err := os.Open(thumbPath)
				if err != nil {
					return err
				}
				defer thumb.Close()
				edit.Thumbnail = &api.FilePart{Filename: thumbPath, Reader: thumb}
			}

			result, err := app.API.EditVideo(cmd.Context(), id, edit)
			if err != nil {
				return err
			}
			app.Catalog.ApplyPatch(id, store.Patch{
				Title:       &result.Title,
				Description: &result.Description,
				Duration:    &result.Duration,
				Thumbnail:   &result.Thumbnail,
			})
			color.Green("Updated video %d: %s", result.ID, result.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&duration, "duration", "", "new duration")
	cmd.Flags().StringVar(&thumbPath, "thumbnail", "", "new thumbnail image file")
	return cmd
}

func rmVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <video-id>",
		Short: "Delete one of your videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireVideoID(args[0])
			if err != nil {
				return err
			}
			sess, ok := app.Session.Current()
			if !ok {
				return vidtube.ErrAuthRequired
			}
			// The server enforces ownership; a cached record lets us refuse
			// locally without a round trip.
			if v, cached := app.Catalog.Get(id); cached && v.Channel != sess.User.Username {
				return errors.New("you can only delete your own videos")
			}
			if err := app.API.DeleteVideo(cmd.Context(), id); err != nil {
				return err
			}
			app.Catalog.Remove(id)
			color.Green("Deleted video %d", id)
			return nil
		},
	}
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a channel's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := app.API.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			color.New(color.Bold).Println(profile.Username)
			fmt.Printf("%d subscribers · %d videos\n", profile.SubscriberCount, profile.VideoCount)
			if profile.Bio != "" {
				fmt.Println(profile.Bio)
			}
			for _, v := range profile.Videos {
				fmt.Printf("  [%d] %s · %d views\n", v.ID, v.Title, v.Views)
			}
			return nil
		},
	}
}

func setProfileCmd() *cobra.Command {
	var bio, avatarPath, bannerPath string
	cmd := &cobra.Command{
		Use:   "set-profile",
		Short: "Update your bio, avatar, or banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			update := &api.ProfileUpdate{}
			if cmd.Flags().Changed("bio") {
				update.Bio = &bio
			}
			if avatarPath != "" {
				f, err := os.Open(avatarPath)
				if err != nil {
					return err
				}
				defer f.Close()
				update.ProfileImage = &api.FilePart{Filename: avatarPath, Reader: f}
			}
			if bannerPath != "" {
				f, err := os.Open(bannerPath)
				if err != nil {
					return err
				}
				defer f.Close()
				update.BannerImage = &api.FilePart{Filename: bannerPath, Reader: f}
			}
			if _, err := app.API.UpdateProfile(cmd.Context(), update); err != nil {
				return err
			}
			color.Green("Profile updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&bio, "bio", "", "profile bio")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "profile image file")
	cmd.Flags().StringVar(&bannerPath, "banner", "", "banner image file")
	return cmd
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users [query]",
		Short: "Search users by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			users, err := app.API.SearchUsers(cmd.Context(), query)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%s · %d subscribers\n", u.Username, u.SubscriberCount)
			}
			return nil
		},
	}
}

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := promptSecret("Current password: ")
			if err != nil {
				return err
			}
			next, err := promptSecret("New password: ")
			if err != nil {
				return err
			}
			if err := app.API.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			color.Green("Password changed")
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptSecret("Password (confirms deletion): ")
			if err != nil {
				return err
			}
			if err := app.Session.DeleteAccount(cmd.Context(), password); err != nil {
				return err
			}
			color.Green("Account deleted")
			return nil
		},
	}
}
