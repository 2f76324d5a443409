package api

import (
	"context"
	"fmt"
	"net/http"
)

// FeedPage is one page of the home feed.
type FeedPage struct {
	Posts []Post `json:"posts"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// CreatePost publishes a post.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPost, "api/posts", nil, req, true, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetFeed fetches one page of the home feed.
func (c *Client) GetFeed(ctx context.Context, page, limit int) (*FeedPage, error) {
	var feed FeedPage
	if err := c.do(ctx, http.MethodGet, "api/posts/feed", pageQuery(page, limit), nil, true, &feed); err != nil {
		return nil, err
	}
	feed.Page = page
	feed.Limit = limit
	return &feed, nil
}

// GetUserPosts fetches one page of a user's posts.
func (c *Client) GetUserPosts(ctx context.Context, userID string, page, limit int) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "api/posts/user/"+userID, pageQuery(page, limit), nil, true, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateStory publishes a story.
func (c *Client) CreateStory(ctx context.Context, req CreateStoryRequest) (*Story, error) {
	var story Story
	if err := c.do(ctx, http.MethodPost, "api/stories", nil, req, true, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// GetFeedStories fetches the stories of the caller's social graph.
func (c *Client) GetFeedStories(ctx context.Context) ([]Story, error) {
	var stories []Story
	if err := c.do(ctx, http.MethodGet, "api/stories/feed", nil, nil, true, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// GetStory fetches one story.
func (c *Client) GetStory(ctx context.Context, storyID string) (*Story, error) {
	var story Story
	if err := c.do(ctx, http.MethodGet, "api/stories/"+storyID, nil, nil, true, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// ViewStory records a story view.
func (c *Client) ViewStory(ctx context.Context, storyID string, req ViewStoryRequest) error {
	endpoint := fmt.Sprintf("api/stories/%s/view", storyID)
	return c.do(ctx, http.MethodPost, endpoint, nil, req, true, nil)
}

// GetPersonalizedReels fetches one page of the personalized reel feed.
func (c *Client) GetPersonalizedReels(ctx context.Context, page, limit int) ([]Reel, error) {
	var reels []Reel
	if err := c.do(ctx, http.MethodGet, "api/reels/feed/personalized", pageQuery(page, limit), nil, true, &reels); err != nil {
		return nil, err
	}
	return reels, nil
}

// GetTrendingReels fetches one page of the trending reel feed.
func (c *Client) GetTrendingReels(ctx context.Context, page, limit int) ([]Reel, error) {
	var reels []Reel
	if err := c.do(ctx, http.MethodGet, "api/reels/discover/trending", pageQuery(page, limit), nil, true, &reels); err != nil {
		return nil, err
	}
	return reels, nil
}

// CreateReel publishes a reel.
func (c *Client) CreateReel(ctx context.Context, req CreateReelRequest) (*Reel, error) {
	var reel Reel
	if err := c.do(ctx, http.MethodPost, "api/reels", nil, req, true, &reel); err != nil {
		return nil, err
	}
	return &reel, nil
}

// TrackReelView reports how long a reel was watched.
func (c *Client) TrackReelView(ctx context.Context, reelID string, watchSeconds int) error {
	endpoint := fmt.Sprintf("api/reels/%s/view", reelID)
	body := map[string]int{"duration": watchSeconds}
	return c.do(ctx, http.MethodPost, endpoint, nil, body, true, nil)
}
