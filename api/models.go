package api

import "github.com/GetStream/engagement-backend/engagement"

type identity struct {
	ID   string `json:"actor_id" validate:"required"`
	Kind string `json:"actor_kind" validate:"omitempty,actorkind"`
}

func (i identity) ref() engagement.ActorRef {
	kind := engagement.ActorKind(i.Kind)
	if kind == "" {
		kind = engagement.Individual
	}
	return engagement.ActorRef{ID: i.ID, Kind: kind}
}

type createPostRequest struct {
	Text       string   `json:"text" validate:"max=10000"`
	Media      []string `json:"media" validate:"omitempty,max=20,dive,url"`
	Tags       []string `json:"tags" validate:"omitempty,max=50,dive,uuid"`
	Visibility string   `json:"visibility" validate:"omitempty,visibility"`
	ParentID   string   `json:"parent_id" validate:"omitempty,uuid"`
}

func (r createPostRequest) post(author engagement.ActorRef) engagement.NewPost {
	return engagement.NewPost{
		Author:     author,
		ParentID:   r.ParentID,
		Text:       r.Text,
		Media:      r.Media,
		Tags:       r.Tags,
		Visibility: engagement.Visibility(r.Visibility),
	}
}

type editPostRequest struct {
	Text       *string   `json:"text" validate:"omitempty,max=10000"`
	Media      *[]string `json:"media" validate:"omitempty,max=20"`
	Tags       *[]string `json:"tags" validate:"omitempty,max=50"`
	Visibility *string   `json:"visibility" validate:"omitempty,visibility"`
}

func (r editPostRequest) patch() engagement.PostPatch {
	p := engagement.PostPatch{
		Text:  r.Text,
		Media: r.Media,
		Tags:  r.Tags,
	}
	if r.Visibility != nil {
		v := engagement.Visibility(*r.Visibility)
		p.Visibility = &v
	}
	return p
}

type createCommentRequest struct {
	Text     string   `json:"text" validate:"required,max=5000"`
	Tags     []string `json:"tags" validate:"omitempty,max=50,dive,uuid"`
	ParentID string   `json:"parent_id" validate:"omitempty,uuid"`
}

type editCommentRequest struct {
	Text *string   `json:"text" validate:"omitempty,max=5000"`
	Tags *[]string `json:"tags" validate:"omitempty,max=50"`
}

func (r editCommentRequest) patch() engagement.CommentPatch {
	return engagement.CommentPatch{Text: r.Text, Tags: r.Tags}
}

type reactionRequest struct {
	TargetKind string          `json:"target_kind" validate:"omitempty,oneof=post comment"`
	Selections map[string]bool `json:"selections" validate:"required"`
}

func (r reactionRequest) selections() map[engagement.ReactionType]bool {
	out := make(map[engagement.ReactionType]bool, len(r.Selections))
	for t, on := range r.Selections {
		out[engagement.ReactionType(t)] = on
	}
	return out
}
