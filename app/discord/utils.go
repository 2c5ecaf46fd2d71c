package main

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// respondEphemeral sends a response that is only visible to the user who invoked the command
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
}

// deferReply sends a deferred response to acknowledge the interaction
func deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
}

// editFollowup edits the initial response to an interaction with new content and embeds
func editFollowup(s *discordgo.Session, i *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed) {
	// Chunking handled simply: send first chunk, then followups.
	chunks := chunkString(content, 1900)
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	edit := &discordgo.WebhookEdit{Content: &chunks[0]}
	if len(embeds) > 0 {
		edit.Embeds = &embeds
	}
	_, _ = s.InteractionResponseEdit(i.Interaction, edit)
	for _, c := range chunks[1:] {
		_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: c})
	}
}

// chunkString splits a long string into smaller chunks, ensuring no chunk exceeds the specified size
func chunkString(s string, size int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for len(s) > size {
		// Never cut inside a multi-byte rune
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}

		// Try to split on paragraph or sentence boundaries
		split := findSplit(s[:cut])
		out = append(out, strings.TrimSpace(s[:split]))
		s = s[split:]
	}
	if strings.TrimSpace(s) != "" {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

// splitRe is a regex to find natural split points in text
var splitRe = regexp.MustCompile(`(?s)(.*[\n\r]{2}|.*[.!?])`)

// findSplit finds the index of a good split point in the string
func findSplit(s string) int {
	m := splitRe.FindStringSubmatchIndex(s)
	if len(m) >= 4 && m[3] > 0 {
		return m[3]
	}
	return len(s)
}

// bracketRe matches [card name] mentions
var bracketRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// extractCardNames returns the distinct bracketed names in content, in order, up to limit
func extractCardNames(content string, limit int) []string {
	var names []string
	seen := make(map[string]bool)

	for _, match := range bracketRe.FindAllStringSubmatch(content, -1) {
		name := strings.Join(strings.Fields(match[1]), " ")
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}

		seen[key] = true
		names = append(names, name)
		if len(names) == limit {
			break
		}
	}

	return names
}
