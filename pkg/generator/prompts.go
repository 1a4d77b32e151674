package generator

import "fmt"

// singlePrompt asks for the whole post in one reply, with the hashtag
// section announced by the separator line that ParsePost splits on.
const singlePrompt = `You are a %s content expert. Look at this image and write a social media post for it.

Requirements:
1. Write 3-4 lines of engaging content based on what is actually in the image
2. Include a hook or question to encourage engagement
3. Add 2-3 relevant emojis spread throughout
4. Keep it personal and authentic
5. Do not put hashtags inside the main content

After the content, add a final line that starts with exactly "Hashtags:" followed by up to 5 relevant hashtags, each starting with #, separated by spaces.

Example format:
Golden hour magic hitting different today! Who else loves views like this?

Hashtags: #sunset #mountains #goldenhour #nature #views`

// captionPrompt asks the vision model for a factual description of the image.
const captionPrompt = `Analyze this image in detail and describe:
1. Main subjects/objects
2. Actions/activities
3. Setting/environment
4. Colors and visual elements
5. Mood/atmosphere

Be specific and descriptive but concise. Your description should be 2-3 sentences long.`

// contentPrompt asks for post content based on a previously generated caption.
func contentPrompt(platform, caption string) string {
	return fmt.Sprintf(`You are a %s expert. Create a medium-length caption based on this image description:

%s

Requirements:
1. Write 3-4 lines of engaging content
2. Include a hook or question to encourage engagement
3. Add 2-3 relevant emojis spread throughout
4. Tell a mini-story or share a relatable moment
5. Keep it personal and authentic
6. Avoid hashtags in the main content

Make it engaging but not overly verbose!`, platform, caption)
}

// hashtagPrompt asks for hashtags as a bare JSON array without '#'.
func hashtagPrompt(platform, post string) string {
	return fmt.Sprintf(`You are a social media expert. Generate 5 relevant and trending hashtags for this %s post:

%s

Your response must be a valid JSON array of hashtags without the # symbol. Example:
["marketing", "business", "success"]

IMPORTANT:
- Respond ONLY with the JSON array
- Maximum 5 hashtags
- Don't include the # symbol
- Make them relevant and trending
- For %s specifically`, platform, post, platform)
}
