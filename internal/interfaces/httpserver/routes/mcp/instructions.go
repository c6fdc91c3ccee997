package mcp

const serverInstructions = `# SearXNG Search MCP Server

This server provides web search through a SearXNG instance, one tool per content category.

## Available Tools

- free_general_search: general searches for websites, articles and facts.
- free_news_search: current events and recent developments.
- free_image_search: pictures and other visual content.
- free_video_search: tutorials, films, live streams and clips.
- free_map_search: places, landmarks and addresses.
- free_music_search: songs, albums and audio.
- free_it_search: programming, systems, networking and security.
- free_science_search: academic content such as physics, chemistry, biology and mathematics.
- free_file_search: downloadable public files such as PDF, PPT and DOC.
- free_social_media_search: public posts and discussions on social platforms.

## Usage Guidelines

- Pick the most specific category for the query. Prefer news for recent events.
- Keep queries concise and specific.
- Calls are rate limited per second and per calendar month. A rate limited call returns an error; retry later.

## Output Format

Every tool returns one text block. With output_format "html" (default) each result is an HTML
fragment with a linked title, an optional thumbnail, an optional description and one line of
category-specific attributes. With output_format "json" the result is a JSON array of objects
with title, url, the category attributes and a type field. All text values are HTML-escaped.
`
